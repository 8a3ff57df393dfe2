// Package timeouts defines shared timeout constants used across the site.
// Centralizing these values keeps outbound budgets discoverable.
package timeouts

import "time"

// CMSRequest caps a single delivery API call.
const CMSRequest = 5 * time.Second

// CMSLoad caps one shared content load, which may span several delivery
// API calls.
const CMSLoad = 20 * time.Second

// CaptchaRequest caps the CAPTCHA verification round trip.
const CaptchaRequest = 5 * time.Second

// MailRequest caps token acquisition plus the mail send call.
const MailRequest = 10 * time.Second

// CacheWarm caps one scheduled cache warm run.
const CacheWarm = 30 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
