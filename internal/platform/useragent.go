package platform

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reTridentRV   = regexp.MustCompile(`rv:(\d+)`)
	reMSIE        = regexp.MustCompile(`MSIE (\d+)`)
	reEdgeHTML    = regexp.MustCompile(`Edge/(\d+)`)
	reEdgium      = regexp.MustCompile(`Edg(?:A|iOS)?/(\d+)`)
	reOpera       = regexp.MustCompile(`OPR/(\d+)`)
	reSamsung     = regexp.MustCompile(`SamsungBrowser/(\d+)`)
	reChrome      = regexp.MustCompile(`(?:Chrome|Chromium|CriOS)/(\d+)`)
	reFirefox     = regexp.MustCompile(`(?:Firefox|FxiOS)/(\d+)`)
	reSafari      = regexp.MustCompile(`Version/(\d+)`)
	reAppleWebKit = regexp.MustCompile(`AppleWebKit/(\d+)`)
)

// Parse derives a Descriptor from a user agent string.
//
// Order matters: EdgeHTML and Opera announce "Chrome/", iOS announces
// "like Mac OS X", and every browser on iOS runs WebKit whatever its product.
func Parse(userAgent string) Descriptor {
	d := Descriptor{UserAgent: userAgent, OS: parseOS(userAgent)}

	switch {
	case strings.Contains(userAgent, "Trident/") || strings.Contains(userAgent, "MSIE "):
		d.Engine, d.Browser = Trident, "ie"
		if m := reMSIE.FindStringSubmatch(userAgent); m != nil {
			d.Major = atoi(m[1])
		} else if m := reTridentRV.FindStringSubmatch(userAgent); m != nil {
			d.Major = atoi(m[1])
		}
	case reEdgeHTML.MatchString(userAgent):
		d.Engine, d.Browser = Edge, "edge"
		d.Major = submatchInt(reEdgeHTML, userAgent)
	case d.OS == IOS:
		d.Engine = WebKit
		d.Browser, d.Major = iosProduct(userAgent)
	case reOpera.MatchString(userAgent):
		d.Engine, d.Browser = Blink, "opera"
		d.Major = submatchInt(reOpera, userAgent)
	case reEdgium.MatchString(userAgent):
		d.Engine, d.Browser = Blink, "edge"
		d.Major = submatchInt(reEdgium, userAgent)
	case reSamsung.MatchString(userAgent):
		d.Engine, d.Browser = Blink, "samsung"
		d.Major = submatchInt(reSamsung, userAgent)
	case reChrome.MatchString(userAgent):
		d.Engine, d.Browser = Blink, "chrome"
		d.Major = submatchInt(reChrome, userAgent)
	case reFirefox.MatchString(userAgent):
		d.Engine, d.Browser = Gecko, "firefox"
		d.Major = submatchInt(reFirefox, userAgent)
	case reAppleWebKit.MatchString(userAgent):
		d.Engine, d.Browser = WebKit, "safari"
		d.Major = submatchInt(reSafari, userAgent)
	}

	return d
}

// iosProduct names the product shell around WebKit on iOS. The version is
// the product's own: Safari's "Version/", Chrome's "CriOS/", Firefox's "FxiOS/".
func iosProduct(userAgent string) (string, int) {
	switch {
	case strings.Contains(userAgent, "CriOS/"):
		return "chrome", submatchInt(reChrome, userAgent)
	case strings.Contains(userAgent, "FxiOS/"):
		return "firefox", submatchInt(reFirefox, userAgent)
	default:
		return "safari", submatchInt(reSafari, userAgent)
	}
}

func parseOS(userAgent string) OS {
	switch {
	case strings.Contains(userAgent, "Windows"):
		return Windows
	case strings.Contains(userAgent, "Android"):
		return Android
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"), strings.Contains(userAgent, "iPod"):
		return IOS
	case strings.Contains(userAgent, "Mac OS X"), strings.Contains(userAgent, "Macintosh"):
		return OSX
	case strings.Contains(userAgent, "CrOS"):
		return ChromeOS
	case strings.Contains(userAgent, "Linux"):
		return Linux
	default:
		return Unknown
	}
}

func submatchInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return atoi(m[1])
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
