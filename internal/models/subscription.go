package models

// SubscriptionKeys is the browser-issued key material for one push
// subscription.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription registers one browser for push delivery to a web-push
// destination. (DestinationName, Endpoint) identifies the record;
// subscribing again with the same pair replaces it.
type Subscription struct {
	DestinationName string           `json:"destinationName"`
	Endpoint        string           `json:"endpoint"`
	ExpirationTime  *int64           `json:"expirationTime"`
	Keys            SubscriptionKeys `json:"keys"`
}
