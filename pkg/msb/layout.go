package msb

import "github.com/Faultbox/maple-msb/pkg/codec"

// Version markers that change the file layout.
const (
	versionTagged         uint16 = 0x2000 // below: version doubles as build
	versionLocaleFirst    uint16 = 0x2012
	versionEndpoints      uint16 = 0x2014
	versionEndpointsBuild uint16 = 0x2015 // and every later version
	versionDirectionFlag  uint16 = 0x2020
	versionDecodeIVs      uint16 = 0x2025
	versionWideSize       uint16 = 0x2027
	versionNoDecodeIVs    uint16 = 0x2030
)

type metaField uint8

const (
	fieldLocalEndpoint metaField = iota
	fieldLocalPort
	fieldRemoteEndpoint
	fieldRemotePort
	fieldLocale16
	fieldLocale8
	fieldBuild16
	fieldBuild32
)

var (
	legacyLayout      = []metaField{fieldLocalPort}
	localeFirstLayout = []metaField{fieldLocale16, fieldBuild16, fieldLocalPort}
	endpointsLayout   = []metaField{
		fieldLocalEndpoint, fieldLocalPort, fieldRemoteEndpoint, fieldRemotePort,
		fieldLocale16, fieldBuild16,
	}
	endpointsBuildLayout = []metaField{
		fieldLocalEndpoint, fieldLocalPort, fieldRemoteEndpoint, fieldRemotePort,
		fieldLocale8, fieldBuild32,
	}
)

// metadataLayout returns the ordered fields stored after the version tag.
func metadataLayout(version uint16) ([]metaField, error) {
	switch {
	case version < versionTagged:
		return legacyLayout, nil
	case version == versionLocaleFirst:
		return localeFirstLayout, nil
	case version == versionEndpoints:
		return endpointsLayout, nil
	case version >= versionEndpointsBuild:
		return endpointsBuildLayout, nil
	default:
		return nil, &UnsupportedVersionError{Version: version}
	}
}

func readMetadata(r *codec.Reader, version uint16) (Metadata, error) {
	fields, err := metadataLayout(version)
	if err != nil {
		return Metadata{}, err
	}

	var m Metadata
	if version < versionTagged {
		m.Build = uint32(version)
		m.Locale = LocaleUnknown
	}

	for _, f := range fields {
		var err error
		switch f {
		case fieldLocalEndpoint:
			m.LocalEndpoint, err = readEndpoint(r)
		case fieldLocalPort:
			m.LocalPort, err = r.ReadUint16()
		case fieldRemoteEndpoint:
			m.RemoteEndpoint, err = readEndpoint(r)
		case fieldRemotePort:
			m.RemotePort, err = r.ReadUint16()
		case fieldLocale16:
			var v uint16
			v, err = r.ReadUint16()
			m.Locale = Locale(v)
		case fieldLocale8:
			var v int8
			v, err = r.ReadInt8()
			m.Locale = Locale(v)
		case fieldBuild16:
			var v uint16
			v, err = r.ReadUint16()
			m.Build = uint32(v)
		case fieldBuild32:
			m.Build, err = r.ReadUint32()
		}
		if err != nil {
			return Metadata{}, err
		}
	}
	return m, nil
}

// readEndpoint reads a string with a one byte length prefix.
func readEndpoint(r *codec.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	return r.ReadRawString(int(n))
}

// frameLayout describes how a packet frame is stored for a version.
type frameLayout struct {
	wideSize      bool // int32 size instead of uint16
	directionFlag bool // explicit outbound byte instead of the size high bit
	decodeIVs     bool // trailing pre/post decode IVs
}

func frameLayoutFor(version uint16) frameLayout {
	return frameLayout{
		wideSize:      version >= versionWideSize,
		directionFlag: version >= versionDirectionFlag,
		decodeIVs:     version >= versionDecodeIVs && version < versionNoDecodeIVs,
	}
}
