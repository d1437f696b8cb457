package section

// MaxCandidates bounds the number of headwords Search returns in one call.
const MaxCandidates = 64

// MaxLinkDepth bounds @@@LINK= chain resolution before giving up on a cycle.
const MaxLinkDepth = 8

// LinkPrefix marks a record whose decoded text is itself a keyword reference
// rather than a definition.
const LinkPrefix = "@@@LINK="

// EncryptedHeaderBit and EncryptedKeywordIndexBit are the two flags packed
// into the header's Encrypted attribute.
const (
	EncryptedHeaderBit        = 1 << 0
	EncryptedKeywordIndexBit  = 1 << 1
)
