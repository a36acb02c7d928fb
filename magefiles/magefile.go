//go:build mage

// Package main provides build targets for the taskboard project using Mage.
//
// Usage:
//
//	mage build          Compile taskboard binary to bin/
//	mage test:all       Run all tests
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Run all tests and write coverage.out
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install taskboard to GOPATH/bin
//	mage serve          Build and start the HTTP API
//	mage stats          Print Go LOC for production and test code
package main
