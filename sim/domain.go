package sim

import "fmt"

// DomainKind names the part of each block a generator operates on.
type DomainKind int

const (
	// Bulk restricts work to the cells a block owns.
	Bulk DomainKind = iota
	// BulkAndEnvelope covers the owned cells plus the ghost layer.
	BulkAndEnvelope
	// Envelope covers the ghost layer only.
	Envelope
)

// UsesEnvelope reports whether the domain touches ghost cells. Such
// domains disable the automatic envelope refresh and enable periodic
// wraparound.
func (k DomainKind) UsesEnvelope() bool {
	return k == BulkAndEnvelope || k == Envelope
}

func (k DomainKind) String() string {
	switch k {
	case Bulk:
		return "bulk"
	case BulkAndEnvelope:
		return "bulkAndEnvelope"
	case Envelope:
		return "envelope"
	}
	return fmt.Sprintf("DomainKind(%d)", int(k))
}

// ParseDomainKind maps the names produced by String back to a DomainKind.
func ParseDomainKind(s string) (DomainKind, error) {
	switch s {
	case "bulk":
		return Bulk, nil
	case "bulkAndEnvelope", "bulk-and-envelope":
		return BulkAndEnvelope, nil
	case "envelope":
		return Envelope, nil
	}
	return Bulk, fmt.Errorf("unknown domain kind %q (valid: bulk, bulkAndEnvelope, envelope)", s)
}

// Modif declares what a generator changed in one participating grid.
type Modif int

const (
	// ModifUndefined is never valid in a declared modification list.
	ModifUndefined Modif = iota
	ModifNothing
	ModifBulk
	ModifBulkAndEnvelope
	ModifEnvelope
)

func (m Modif) String() string {
	switch m {
	case ModifUndefined:
		return "undefined"
	case ModifNothing:
		return "nothing"
	case ModifBulk:
		return "bulk"
	case ModifBulkAndEnvelope:
		return "bulkAndEnvelope"
	case ModifEnvelope:
		return "envelope"
	}
	return fmt.Sprintf("Modif(%d)", int(m))
}

// ModifFor returns the modification a writer applying on kind produces.
func ModifFor(kind DomainKind) Modif {
	switch kind {
	case BulkAndEnvelope:
		return ModifBulkAndEnvelope
	case Envelope:
		return ModifEnvelope
	}
	return ModifBulk
}

// ReferenceIndex returns the index of the first written participant, or 0
// when the generator writes nothing. Localization, periodicity and level
// scaling are all taken relative to that participant.
func ReferenceIndex(isWritten []bool) int {
	for i, w := range isWritten {
		if w {
			return i
		}
	}
	return 0
}
