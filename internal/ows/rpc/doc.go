// Package rpc is the transport to an OWS scheduler node: a gRPC service
// named ows.Scheduler whose unary methods exchange structpb.Struct
// payloads, a typed client stub, and a Client that manages the connection
// of an interactive session.
//
// Node-side faults travel as gRPC status errors carrying the OWS error code
// in a status detail; the stub turns them back into coded errors so that
// callers can tell routing, node, job and processing faults apart.
package rpc
