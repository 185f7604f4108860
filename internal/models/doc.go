// Package models defines the core domain models for susu.
//
// # Models
//
//   - Identity: opaque account identifier for a participant
//   - Member: an Identity plus a display name, as enrolled in a club
//   - Club: a rotating savings club with a pooled balance
//   - ClubID: dense numeric club identifier, allocated from 1
//
// # Design Principles
//
// 1. **Opaque identities**: an Identity is compared, never parsed. Wallet
// addresses, usernames and UUIDs all work unchanged.
// 2. **Indices, not pointers**: the owner and the next payee are indices
// into Club.Members, so a Club has no internal references to chase.
// 3. **Zero value means dissolved**: a zeroed Club marks a retired slot.
// Slot positions encode ids, so dissolved clubs keep their place forever.
// 4. **Exact money**: balances and amounts are decimal.Decimal, never
// floats.
package models
