// Package mqtt5 implements the client-side protocol engine for MQTT 5.0:
// the binary codec for control packets, per-packet-type construction and
// parsing, the pending-packet-identifier table and the QoS 1/2
// acknowledgement state machines.
//
// The engine owns no transport. Callers hand it a Transport (see
// transport.go) and drive it by calling Session methods and
// Session.ProcessPacket. There is no concurrency inside the engine: exactly
// one goroutine must own a given Session.
//
// Start reading at session.go for the state machine, or header.go for the
// wire format.
package mqtt5
