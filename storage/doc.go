// Package storage provides token persistence backends for sessionkit.
//
// Architecture boundaries:
//   - storage backends are passive. The client decides when to Save and
//     Clear; backends never refresh, validate, or expire tokens themselves.
//   - a failed Save or Clear must never corrupt the previously persisted
//     pair beyond what the backend's own durability allows.
//
// Load returns (nil, nil) when no pair is persisted; callers must treat a
// nil pair as an anonymous start, not as an error.
package storage
