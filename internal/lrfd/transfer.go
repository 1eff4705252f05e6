package lrfd

import "fmt"

// TransferMethod is the closed set of transfer length models
type TransferMethod int

const (
	TransferStandard   TransferMethod = iota // Article 5.9.4.3.1
	TransferUHPCPCI                          // PCI UHPC
	TransferUHPCFHWA                         // AASHTO UHPC guide
	TransferNegligible                       // zero-length placeholder
)

func (m TransferMethod) String() string {
	switch m {
	case TransferStandard:
		return "LRFD 5.9.4.3.1"
	case TransferUHPCPCI:
		return "PCI UHPC"
	case TransferUHPCFHWA:
		return "AASHTO UHPC GS"
	case TransferNegligible:
		return "Negligible"
	}
	return fmt.Sprintf("TransferMethod(%d)", int(m))
}

// NegligibleTransferLength stands in for a zero transfer length so that
// ratios against it stay finite.
const NegligibleTransferLength = 0.001 // in

// SelectTransferMethod picks the transfer model for the concrete type
func SelectTransferMethod(ct ConcreteType, comp TransferComputation) TransferMethod {
	if comp == TransferZeroLength {
		return TransferNegligible
	}
	switch ct {
	case UHPCPCI:
		return TransferUHPCPCI
	case UHPCFHWA:
		return TransferUHPCFHWA
	default:
		return TransferStandard
	}
}

// TransferLength returns lt (in) for strand diameter db
func TransferLength(m TransferMethod, db float64, coating Coating, xt TransferType) float64 {
	switch m {
	case TransferStandard:
		if coating == EpoxyCoated {
			return 50 * db
		}
		return 60 * db
	case TransferUHPCPCI:
		return 20 * db
	case TransferUHPCFHWA:
		lt := 24 * db
		if xt == TransferMinimum {
			lt *= 0.75
		}
		return lt
	case TransferNegligible:
		return NegligibleTransferLength
	}
	panic(fmt.Sprintf("lrfd: unhandled transfer method %v", m))
}
