// Package service implements the CEC control service: the owner of
// the run loop, the action registry and the bridge transport.
//
// The service is the action framework's Environment. Callers create
// concrete actions against it and hand them to AddAndStartAction;
// every message arriving from the bridge is fed to HandleMessage,
// which dispatches it to the active actions on the loop. Messages no
// action consumes go to the default handler.
package service
