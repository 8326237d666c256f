package services

import (
	"net/url"
	"strings"
)

const (
	ShippingProviderUSPS  = "usps"
	ShippingProviderUPS   = "ups"
	ShippingProviderFedEx = "fedex"
	ShippingProviderDHL   = "dhl"
	ShippingProviderOther = "other"
)

// NormalizeShippingProvider returns a canonical provider key for known carriers.
func NormalizeShippingProvider(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer(" ", "", "-", "", "_", "")
	normalized = replacer.Replace(normalized)

	switch normalized {
	case "usps", "unitedstatespostalservice":
		return ShippingProviderUSPS
	case "ups", "unitedparcelservice":
		return ShippingProviderUPS
	case "fedex", "federalexpress":
		return ShippingProviderFedEx
	case "dhl", "dhlexpress":
		return ShippingProviderDHL
	case "other":
		return ShippingProviderOther
	default:
		return ""
	}
}

// CanonicalCarrierName maps a provider key to the display name.
func CanonicalCarrierName(provider string) string {
	switch NormalizeShippingProvider(provider) {
	case ShippingProviderUSPS:
		return "USPS"
	case ShippingProviderUPS:
		return "UPS"
	case ShippingProviderFedEx:
		return "FedEx"
	case ShippingProviderDHL:
		return "DHL"
	default:
		return ""
	}
}

// ResolveShippingCarrier selects the final carrier display name from the
// operator's provider choice. "other" keeps whatever custom name the
// operator typed; unknown values normalize to a canonical name when one
// exists and are otherwise kept untouched.
func ResolveShippingCarrier(provider, custom string) string {
	switch key := NormalizeShippingProvider(provider); key {
	case ShippingProviderOther:
		return strings.TrimSpace(custom)
	case "":
		trimmed := strings.TrimSpace(provider)
		if canonical := CanonicalCarrierName(trimmed); canonical != "" {
			return canonical
		}
		return trimmed
	default:
		return CanonicalCarrierName(key)
	}
}

// BuildTrackingURL returns a carrier-specific tracking URL. Unknown
// carriers return empty.
func BuildTrackingURL(carrier, trackingNumber string) string {
	number := strings.TrimSpace(trackingNumber)
	if number == "" {
		return ""
	}

	escaped := url.QueryEscape(number)
	switch NormalizeShippingProvider(carrier) {
	case ShippingProviderUSPS:
		return "https://tools.usps.com/go/TrackConfirmAction?tLabels=" + escaped
	case ShippingProviderUPS:
		return "https://www.ups.com/track?tracknum=" + escaped
	case ShippingProviderFedEx:
		return "https://www.fedex.com/fedextrack/?trknbr=" + escaped
	case ShippingProviderDHL:
		return "https://www.dhl.com/us-en/home/tracking.html?tracking-id=" + escaped
	default:
		return ""
	}
}
