package domain

// Mode is the widget mode hint: which kind of question the customer is asking.
// An empty mode means the client did not pick one and the server should guess.
type Mode string

const (
	ModeNone    Mode = ""
	ModeProduct Mode = "product"
	ModeOrder   Mode = "order"
	ModeTech    Mode = "tech"
)

// Valid reports whether m is one of the known mode values.
func (m Mode) Valid() bool {
	switch m {
	case ModeNone, ModeProduct, ModeOrder, ModeTech:
		return true
	}
	return false
}

// DomainFor maps a mode to the knowledge domain searched for it.
// Product questions search the catalog, tech questions the manuals plus
// imported support correspondence, everything else the general index.
func DomainFor(m Mode) Domain {
	switch m {
	case ModeProduct:
		return DomainProducts
	case ModeTech:
		return DomainTech
	default:
		return DomainGeneral
	}
}
