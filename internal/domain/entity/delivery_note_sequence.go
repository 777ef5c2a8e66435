package entity

// DeliveryNoteSequence contador por año para los números de BL.
type DeliveryNoteSequence struct {
	Year         int
	LastSequence int
}
