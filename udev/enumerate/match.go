package enumerate

import (
	"path"
	"strings"

	"github.com/udevgo/udevgo/udev"
)

// globMatch reports whether value matches glob under shell-globbing
// semantics, the same convention udev/hwdb's query engine uses.
func globMatch(glob, value string) bool {
	ok, err := path.Match(glob, value)
	return err == nil && ok
}

func (e *Enumerator) matchSubsystem(d *udev.Device) bool {
	subsystem := d.GetSubsystem()
	for _, no := range e.subsystemNoMatch {
		if globMatch(no, subsystem) {
			return false
		}
	}
	if len(e.subsystemMatch) == 0 {
		return true
	}
	for _, m := range e.subsystemMatch {
		if globMatch(m, subsystem) {
			return true
		}
	}
	return false
}

func (e *Enumerator) matchSysname(d *udev.Device) bool {
	if len(e.sysnameMatch) == 0 {
		return true
	}
	for _, m := range e.sysnameMatch {
		if globMatch(m, d.Sysname) {
			return true
		}
	}
	return false
}

// matchParent reports whether d lies within the subtree rooted at the
// enumerator's parent device: the parent's devpath must be a prefix
// of d's devpath, at a path-component boundary.
func (e *Enumerator) matchParent(d *udev.Device) bool {
	if e.parent == nil {
		return true
	}
	if d.Devpath == e.parent.Devpath {
		return true
	}
	return strings.HasPrefix(d.Devpath, strings.TrimRight(e.parent.Devpath, "/")+"/")
}

func (e *Enumerator) matchTag(d *udev.Device) bool {
	if len(e.tagMatch) == 0 {
		return true
	}
	// Tags are only populated from the persisted device record (the
	// "G:" lines loadDb reads), so force that read through before
	// checking membership.
	d.GetIsInitialized()
	for _, t := range e.tagMatch {
		if d.Tags.ByName(t) == nil {
			return false
		}
	}
	return true
}

func (e *Enumerator) matchProperty(d *udev.Device) bool {
	if len(e.propertyMatch) == 0 {
		return true
	}
	for _, pm := range e.propertyMatch {
		for _, prop := range d.Properties.Iter() {
			if !globMatch(pm.key, prop.Name) {
				continue
			}
			if pm.value == "" {
				if prop.Value == "" {
					return true
				}
				continue
			}
			if globMatch(pm.value, prop.Value) {
				return true
			}
		}
	}
	return false
}

func (e *Enumerator) matchSysattr(d *udev.Device) bool {
	for _, no := range e.sysattrNoMatch {
		if globMatch(no.value, d.GetSysattrValue(no.key)) {
			return false
		}
	}
	for _, m := range e.sysattrMatch {
		if !globMatch(m.value, d.GetSysattrValue(m.key)) {
			return false
		}
	}
	return true
}

func (e *Enumerator) matches(d *udev.Device) bool {
	if e.isInitializedOnly && !d.GetIsInitialized() {
		return false
	}
	return e.matchSubsystem(d) &&
		e.matchSysname(d) &&
		e.matchParent(d) &&
		e.matchTag(d) &&
		e.matchProperty(d) &&
		e.matchSysattr(d)
}
