// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	apperrors "sheetdesk/cli/internal/errors"

	"github.com/pterm/pterm"
)

// Category is the user-facing class of a network failure.
type Category string

const (
	Timeout           Category = "timeout"
	DNS               Category = "dns"
	ConnectionRefused Category = "connection_refused"
	TLS               Category = "tls"
	Server            Category = "server"
	Generic           Category = "generic"
)

// FormatNetworkError converts technical HTTP/network errors into user-friendly messages.
// It detects common error types (timeout, DNS, connection refused, TLS, server errors),
// writes troubleshooting hints to w and returns err wrapped for logging.
func FormatNetworkError(w io.Writer, err error, context, host string) error {
	if err == nil {
		return nil
	}
	display(w, Classify(err), context, host, err.Error())
	return fmt.Errorf("network error: %w", err)
}

// Classify picks the category used to explain err.
func Classify(err error) Category {
	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	case apperrors.KindOf(err) == apperrors.Server || isServerError(err.Error()):
		return Server
	default:
		return Generic
	}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError checks if the error text indicates a server-side problem (5xx).
func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	for _, s := range []string{"internal server error", "bad gateway", "service unavailable", "gateway timeout"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func display(w io.Writer, c Category, context, host, details string) {
	p := pterm.DefaultBasicText.WithWriter(w)
	switch c {
	case Timeout:
		p.Printfln("⏱️  Connection timeout while %s", context)
		p.Println()
		p.Println("The server took too long to respond. This could mean:")
		p.Println("  • Slow network connection")
		p.Println("  • Server is under heavy load")
		p.Println()
	case DNS:
		p.Printfln("🌐 Cannot resolve server address while %s", context)
		p.Println()
		p.Printfln("Unable to look up %s. Check the api_base_url setting and your DNS.", host)
		p.Println()
	case ConnectionRefused:
		p.Printfln("🚫 Connection refused while %s", context)
		p.Println()
		p.Printfln("Nothing is accepting connections at %s. Is the sheetdesk server running?", host)
		p.Println()
	case TLS:
		p.Printfln("🔒 Secure connection failed while %s", context)
		p.Println()
		p.Println("Check the server certificate and your system clock.")
		p.Println()
	case Server:
		p.Printfln("⚠️  Server error while %s", context)
		p.Println()
		p.Println("The sheetdesk server failed to handle the request. Please try again later.")
		p.Println()
	default:
		p.Printfln("❌ Cannot reach sheetdesk while %s", context)
		p.Println()
		if details != "" {
			if len(details) > 100 {
				details = details[:100] + "..."
			}
			p.Printfln("Technical details: %s", details)
			p.Println()
		}
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
