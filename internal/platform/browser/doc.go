// Package browser adapts playwright-go to the driver interfaces used by
// the competitor search session. It runs headless Chromium with one
// browser context shared by every page the session opens.
package browser
