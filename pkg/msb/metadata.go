package msb

import "fmt"

// Locale identifies the game region a capture was recorded against.
type Locale int32

// Known locales.
const (
	LocaleUnknown    Locale = 0
	LocaleKorea      Locale = 1
	LocaleKoreaTest  Locale = 2
	LocaleJapan      Locale = 3
	LocaleChina      Locale = 4
	LocaleChinaTest  Locale = 5
	LocaleTaiwan     Locale = 6
	LocaleTaiwanTest Locale = 7
	LocaleGlobal     Locale = 8
	LocaleEurope     Locale = 9
	LocaleGlobalTest Locale = 10
	LocaleThailand   Locale = 11
)

// String returns the locale name.
func (l Locale) String() string {
	switch l {
	case LocaleUnknown:
		return "Unknown"
	case LocaleKorea:
		return "Korea"
	case LocaleKoreaTest:
		return "KoreaTest"
	case LocaleJapan:
		return "Japan"
	case LocaleChina:
		return "China"
	case LocaleChinaTest:
		return "ChinaTest"
	case LocaleTaiwan:
		return "Taiwan"
	case LocaleTaiwanTest:
		return "TaiwanTest"
	case LocaleGlobal:
		return "Global"
	case LocaleEurope:
		return "Europe"
	case LocaleGlobalTest:
		return "GlobalTest"
	case LocaleThailand:
		return "Thailand"
	default:
		return fmt.Sprintf("Locale(%d)", int32(l))
	}
}

// Metadata describes the connection a capture was recorded from.
// Fields absent from a file's layout keep their zero value.
type Metadata struct {
	LocalEndpoint  string
	LocalPort      uint16
	RemoteEndpoint string
	RemotePort     uint16
	Locale         Locale
	Build          uint32
}

// String returns a one line summary.
func (m Metadata) String() string {
	return fmt.Sprintf("LocalEndpoint: %s, LocalPort: %d, RemoteEndpoint: %s, RemotePort: %d, Locale: %s, Build: %d",
		m.LocalEndpoint, m.LocalPort, m.RemoteEndpoint, m.RemotePort, m.Locale, m.Build)
}

// VersionString formats a version tag as its four nibbles, e.g. 0x2014 -> "2.0.1.4".
func VersionString(version uint16) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		(version>>12)&0xf, (version>>8)&0xf, (version>>4)&0xf, version&0xf)
}
