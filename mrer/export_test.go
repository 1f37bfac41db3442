package mrer

// Exported aliases for testing internal functions from
// the mrer_test package.

// ResolveTitleForTest exposes resolveTitle.
var ResolveTitleForTest = resolveTitle
