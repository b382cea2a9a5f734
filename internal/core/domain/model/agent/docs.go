// Package agent contains the DeliveryAgent aggregate.
//
// A delivery agent is the person physically moving packages between sellers
// and buyers. The aggregate tracks the agent's identity, availability, the
// order currently in hand, and lifetime completion counters used for
// dispatch ranking.
package agent
