// Package preview renders a clone result for humans: as a sandboxed browser
// page, as escaped source, or as wrapped plain text for a terminal.
package preview

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Device selects one of the two fixed preview layouts.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
)

// Preset is the layout of a device in the browser and in the terminal.
type Preset struct {
	MaxWidth template.CSS
	Height   template.CSS
	Columns  int
}

var presets = map[Device]Preset{
	DeviceDesktop: {MaxWidth: "100%", Height: "70vh", Columns: 100},
	DeviceMobile:  {MaxWidth: "24rem", Height: "60vh", Columns: 40},
}

// Preset returns the layout for d. Unknown devices get the desktop layout.
func (d Device) Preset() Preset {
	if p, ok := presets[d]; ok {
		return p
	}
	return presets[DeviceDesktop]
}

// ParseDevice accepts "desktop" or "mobile", case-insensitively. Empty means desktop.
func ParseDevice(s string) (Device, error) {
	switch Device(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeviceDesktop:
		return DeviceDesktop, nil
	case DeviceMobile:
		return DeviceMobile, nil
	default:
		return "", fmt.Errorf("unknown device %q (want desktop or mobile)", s)
	}
}

var sandboxTmpl = template.Must(template.New("sandbox").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Cloned Website Preview</title>
<style>
body { margin: 0; padding: 1rem; background: #111827; }
.frame { background: #fff; border-radius: 0.375rem; overflow: hidden; margin: 0 auto; width: 100%; max-width: {{.Preset.MaxWidth}}; }
iframe { display: block; width: 100%; height: {{.Preset.Height}}; border: 0; }
</style>
</head>
<body>
<div class="frame" data-device="{{.Device}}">
<iframe title="Cloned Website Preview" sandbox="allow-same-origin" srcdoc="{{.HTML}}"></iframe>
</div>
</body>
</html>
`))

var codeTmpl = template.Must(template.New("code").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cloned Website Source</title>
<style>
body { margin: 0; padding: 1rem; background: #1f2937; color: #d1d5db; }
pre { white-space: pre-wrap; word-break: break-all; font-size: 0.875rem; }
</style>
</head>
<body>
<pre><code>{{.}}</code></pre>
</body>
</html>
`))

// SandboxPage writes a page embedding doc in an iframe that may not run scripts.
// The iframe is sized by the device preset.
func SandboxPage(w io.Writer, doc string, device Device) error {
	return sandboxTmpl.Execute(w, struct {
		Device Device
		Preset Preset
		HTML   string
	}{Device: device, Preset: device.Preset(), HTML: doc})
}

// CodePage writes doc verbatim as preformatted, escaped text.
func CodePage(w io.Writer, doc string) error {
	return codeTmpl.Execute(w, doc)
}
