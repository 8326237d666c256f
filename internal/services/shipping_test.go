package services

import "testing"

func TestResolveShippingCarrier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider string
		custom   string
		want     string
	}{
		{
			name:     "known provider usps",
			provider: "usps",
			want:     "USPS",
		},
		{
			name:     "known provider fedex with odd casing",
			provider: "FedEx",
			want:     "FedEx",
		},
		{
			name:     "known provider spelled out",
			provider: "United Parcel Service",
			want:     "UPS",
		},
		{
			name:     "dhl express",
			provider: "DHL Express",
			want:     "DHL",
		},
		{
			name:     "other provider uses custom value",
			provider: "other",
			custom:   "OnTrac",
			want:     "OnTrac",
		},
		{
			name:     "unknown provider kept untouched",
			provider: "Deutsche Post",
			want:     "Deutsche Post",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveShippingCarrier(tc.provider, tc.custom)
			if got != tc.want {
				t.Fatalf("ResolveShippingCarrier() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildTrackingURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		carrier        string
		trackingNumber string
		want           string
	}{
		{
			name:           "usps url",
			carrier:        "USPS",
			trackingNumber: "9400111899223856925034",
			want:           "https://tools.usps.com/go/TrackConfirmAction?tLabels=9400111899223856925034",
		},
		{
			name:           "ups url",
			carrier:        "ups",
			trackingNumber: "1Z999AA10123456784",
			want:           "https://www.ups.com/track?tracknum=1Z999AA10123456784",
		},
		{
			name:           "fedex url",
			carrier:        "FedEx",
			trackingNumber: "123456789012",
			want:           "https://www.fedex.com/fedextrack/?trknbr=123456789012",
		},
		{
			name:           "dhl url",
			carrier:        "DHL",
			trackingNumber: "0000123456",
			want:           "https://www.dhl.com/us-en/home/tracking.html?tracking-id=0000123456",
		},
		{
			name:           "unknown carrier has no url",
			carrier:        "OnTrac",
			trackingNumber: "12345",
			want:           "",
		},
		{
			name:           "empty tracking number has no url",
			carrier:        "USPS",
			trackingNumber: "",
			want:           "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := BuildTrackingURL(tc.carrier, tc.trackingNumber)
			if got != tc.want {
				t.Fatalf("BuildTrackingURL() = %q, want %q", got, tc.want)
			}
		})
	}
}
