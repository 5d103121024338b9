// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters) and the extraction engine.
//
// Services are pure Go with no external dependencies.
package services
