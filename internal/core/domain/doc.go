// Package domain contains the core business entities and rules for the
// nublado catalogue: catalogue entries, folder references, category
// classification, search results and the reconciliation report types.
//
// The domain layer has no dependencies on adapters or infrastructure.
package domain
