package domain

// ProofCategory groups stored proof files by the operation that produced them.
type ProofCategory string

const (
	ProofVoucher       ProofCategory = "vouchers"
	ProofRejection     ProofCategory = "rejections"
	ProofVendorPayment ProofCategory = "vendor_payments"
	ProofPayment       ProofCategory = "payments"
)

// IsValid reports whether c is a known category.
func (c ProofCategory) IsValid() bool {
	switch c {
	case ProofVoucher, ProofRejection, ProofVendorPayment, ProofPayment:
		return true
	}
	return false
}
