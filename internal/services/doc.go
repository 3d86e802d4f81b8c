// Package services holds the shared error taxonomy and context carriers used
// by pipeline stages and external tool clients.
package services
