// Package queue defines message payloads exchanged over the message broker.
package queue

// RegistrationQueueName is the durable queue carrying registration events.
const RegistrationQueueName = "customer.registered"

// CustomerRegisteredEvent is published when a new account is created.  It
// carries enough information for downstream consumers (welcome mail, CRM
// sync, analytics) without querying the primary database.  It never includes
// credential material.
type CustomerRegisteredEvent struct {
    CustomerID   uint64 `json:"customer_id"`
    AccountName  string `json:"account_name"`
    Mail         string `json:"mail"`
    Tier         int    `json:"tier"`
    RegisteredAt string `json:"registered_at"`
}
