package telos

import "regexp"

// Telos account names are 1-12 characters from a-z, 1-5 and ".".
var accountNameRe = regexp.MustCompile(`^([a-z]|[1-5]|[.]){1,12}$`)

// ValidAccountFormat reports whether name is a syntactically valid
// Telos account name.
func (c *Client) ValidAccountFormat(name string) bool {
	return accountNameRe.MatchString(name)
}

// nameToUint64 encodes an account name into the chain's native base-32
// uint64 representation, 5 bits per character from the high end.
func nameToUint64(name string) uint64 {
	var n uint64
	for i := 0; i < len(name) && i < 12; i++ {
		n |= (charToSymbol(name[i]) & 0x1f) << uint(64-5*(i+1))
	}
	if len(name) > 12 {
		n |= charToSymbol(name[12]) & 0x0f
	}
	return n
}

func charToSymbol(c byte) uint64 {
	switch {
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 6
	case c >= '1' && c <= '5':
		return uint64(c-'1') + 1
	default:
		return 0
	}
}
