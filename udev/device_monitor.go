package udev

// MonitorBuffer renders Properties as the NUL-separated "KEY=VALUE"
// block a monitor frame carries, caching the result until the next
// property mutation invalidates it (see invalidateCaches).
func (d *Device) MonitorBuffer() []byte {
	if d.MonitorBuf != nil {
		return d.MonitorBuf
	}

	var buf []byte
	for _, e := range d.Properties.Iter() {
		buf = append(buf, e.Name...)
		buf = append(buf, '=')
		buf = append(buf, e.Value...)
		buf = append(buf, 0)
	}
	d.MonitorBuf = buf
	return buf
}
