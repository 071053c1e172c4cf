// Package services defines the error taxonomy shared by pipeline stages and
// the context annotations used to thread run and stage identity through
// logging and external calls.
package services
