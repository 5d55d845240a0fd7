package plextv

import (
	"net/http"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/google/uuid"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		defaultDevice.Version = info.Main.Version
	}
	defaultDevice.DeviceName, _ = os.Hostname()
}

// Device identifies this integration to plex.tv. Although this package
// provides a default, it is recommended to set this yourself: the
// identity shows up in the account's Authorized Devices list.
type Device struct {
	// Product is the name of the client product.
	// Passed as X-Plex-Product header.
	Product string
	// Version is the version of the client application.
	// Passed as X-Plex-Version header.
	Version string
	// Platform is the operating system or compiler of the client application.
	// Passed as X-Plex-Platform header.
	Platform string
	// PlatformVersion is the version of the platform.
	// Passed as X-Plex-Platform-Version header.
	PlatformVersion string
	// Device is a relatively friendly name for the client device.
	// Passed as X-Plex-Device header.
	Device string
	// DeviceName is a friendly name for the client.
	// Passed as X-Plex-Device-Name header.
	DeviceName string
	// Identifier is a unique identifier for the client.
	// Passed as X-Plex-Client-Identifier header.
	Identifier string
}

func (d Device) populateRequest(req *http.Request) {
	headers := map[string]string{
		"X-Plex-Product":           d.Product,
		"X-Plex-Version":           d.Version,
		"X-Plex-Platform":          d.Platform,
		"X-Plex-Platform-Version":  d.PlatformVersion,
		"X-Plex-Device":            d.Device,
		"X-Plex-Device-Name":       d.DeviceName,
		"X-Plex-Client-Identifier": d.Identifier,
	}
	for key, value := range headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}
}

var defaultDevice = Device{
	Product:         "github.com/chatplex/plexbot",
	Version:         "(devel)",
	Device:          "plexbot",
	Platform:        runtime.GOOS,
	PlatformVersion: runtime.Version(),
	Identifier:      uuid.New().String(),
}
