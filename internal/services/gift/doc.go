/*
Package gift implements the gift transfer engine: atomic iMoney transfers
between two user wallets with an auditable transaction record and a bounded
cancellation window.

A transfer debits the sender and credits the recipient inside one ledger
transaction; no reader ever observes one side moved without the other. The
transaction record is created pending and marked completed within the same
unit. The sender may cancel a completed transfer within the cancellation
window, which reverses both balances atomically.

Usage:

	svc := gift.NewService(ledger, notifier, cache, gift.Config{})

	result, err := svc.SendGift(ctx, senderID, gift.SendGiftRequest{
	    RecipientEmail: "friend@example.com",
	    Amount:         200,
	    Message:        "happy birthday!",
	    Reason:         models.GiftReasonBirthday,
	})

	cancelRes, err := svc.CancelGift(ctx, result.Transaction.TransactionID, senderID)

Notifications to both parties are dispatched after commit, best-effort;
a notification failure never fails the transfer.
*/
package gift
