// Package branding holds the site's fixed naming.
package branding

// AppName is the display name used when the CMS has no site name.
const AppName = "Uslu Solutions"

// LegalName is the company name printed in the copyright line.
const LegalName = "Uslu Solutions ApS"
