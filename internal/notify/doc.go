// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package notify delivers account and task emails.
//
// A [Notifier] composes the messages and hands them to a [Sender]. Senders
// exist for the log (development), an HTTP mail relay and an AMQP queue
// consumed by a separate mailer. [Dispatcher] decouples callers from
// delivery: it queues messages in a bounded channel and delivers them from
// worker goroutines, so a slow or failing mail backend never blocks or
// fails the request that triggered the email.
package notify
