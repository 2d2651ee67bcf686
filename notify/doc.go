// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify distributes election events to interested parties.

Broker is an in-process fan-out with per-subscriber buffers. Publish never
blocks; slow subscribers lose events and the loss is counted. The HTTP
event stream and the AMQP relay are both Broker subscribers.

AMQPRelay forwards every event to a RabbitMQ topic exchange as a JSON
Envelope with routing key "election.<kind>".
*/
package notify
