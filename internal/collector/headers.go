package collector

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
)

var userAgents = []string{
	"Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
}

// HeaderGenerator produces browser-like request headers with a rotating user agent.
type HeaderGenerator struct {
	Origin    string
	UserAgent func() string
}

// NewHeaderGenerator returns a generator that picks a random user agent per request.
func NewHeaderGenerator(origin string) *HeaderGenerator {
	return &HeaderGenerator{
		Origin:    origin,
		UserAgent: func() string { return userAgents[rand.IntN(len(userAgents))] },
	}
}

// Generate builds headers for one request. referer may be empty.
func (g *HeaderGenerator) Generate(referer string) http.Header {
	ua := g.UserAgent()
	h := http.Header{}
	h.Set("User-Agent", ua)
	h.Set("Content-Type", "application/json")
	h.Set("sec-ch-ua", `"Chromium";v="137", "Not/A)Brand";v="24"`)
	h.Set("sec-ch-ua-mobile", mobileHint(ua))
	h.Set("sec-ch-ua-platform", platformHint(ua))
	h.Set("x-version", fmt.Sprintf("2fcafb%d", 1+rand.IntN(9)))
	h.Set("x-source", "tokopedia-lite")
	h.Set("x-tkpd-lite-service", "phoenix")
	h.Set("x-price-center", "true")
	h.Set("bd-device-id", randomDeviceID())
	h.Set("origin", g.Origin)
	h.Set("sec-fetch-site", "same-site")
	h.Set("sec-fetch-mode", "cors")
	h.Set("sec-fetch-dest", "empty")
	h.Set("accept-language", "id-ID,id;q=0.9,en-US;q=0.8,en;q=0.7")
	if referer != "" {
		h.Set("referer", referer)
	}
	return h
}

func mobileHint(ua string) string {
	if strings.Contains(ua, "Android") || strings.Contains(ua, "iPhone") {
		return "?1"
	}
	return "?0"
}

func platformHint(ua string) string {
	switch {
	case strings.Contains(ua, "Android"):
		return `"Android"`
	case strings.Contains(ua, "Windows"):
		return `"Windows"`
	default:
		return `"iOS"`
	}
}

// randomDeviceID returns a 19-digit id starting with 7.
func randomDeviceID() string {
	return strconv.FormatInt(7_000_000_000_000_000_000+rand.Int64N(1_000_000_000_000_000_000), 10)
}
