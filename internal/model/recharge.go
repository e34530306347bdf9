package model

import "time"

// RechargeHistory records one wallet top-up.  The row is written in the
// same transaction that increments the student's balance.
//
// Fields:
//  TransactionID – primary key identifier.
//  StudentID     – student whose wallet was credited.
//  AmountAdded   – credited amount, always > 0.
//  PaymentID     – external payment gateway reference.
//  Timestamp     – when the recharge was processed.
type RechargeHistory struct {
	TransactionID uint64    // recharge_history.transaction_id
	StudentID     uint64    // recharge_history.student_id
	AmountAdded   int64     // recharge_history.amount_added
	PaymentID     string    // recharge_history.payment_id
	Timestamp     time.Time // recharge_history.time_stamp
}
