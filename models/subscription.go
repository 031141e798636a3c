package models

// Subscription is one push-notification registration. A device token may be
// shared by several accounts, so the persistence key is (token, account): the
// token maps back to its owners while a single account's registrations remain
// queryable.
//
// Failures counts consecutive delivery failures. While the record exists the
// counter stays below the configured maximum; reaching the threshold evicts
// the record. Re-registering via SetSubscription resets the counter to zero.
type Subscription struct {
	// Account is the owning account identifier.
	Account string `json:"account"`

	// Token is the push-endpoint identifier issued by the device platform.
	Token string `json:"token"`

	// Hours lists the local hours (0-23) at which the subscriber wants to be
	// notified.
	Hours []int `json:"hours"`

	// Timezone is the IANA timezone name the Hours schedule is expressed in.
	Timezone string `json:"timezone"`

	// Failures is the consecutive delivery-failure counter.
	Failures int `json:"failures"`
}

// TableName returns the name of the database table
// associated with the Subscription model.
func (s Subscription) TableName() string {
	return "subscriptions"
}
