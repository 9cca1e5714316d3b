// Package enumerate walks sysfs (or, where available, the daemon's
// tag reverse-index under the run directory) to produce the syspaths
// of devices matching a set of filters.
package enumerate

import (
	"github.com/udevgo/udevgo/udev"
)

// propertyMatch is a (key-glob, value-glob) pair.
type propertyMatch struct {
	key   string
	value string
}

// Enumerator accumulates filters and, once ScanDevices, ScanSubsystems
// or AddSyspath has run, a result list of syspaths. It holds no sysfs state between
// calls other than that result list; building one is cheap.
type Enumerator struct {
	ctx    *udev.Context
	parent *udev.Device

	subsystemMatch   []string
	subsystemNoMatch []string
	sysnameMatch     []string
	sysattrMatch     []propertyMatch
	sysattrNoMatch   []propertyMatch
	propertyMatch    []propertyMatch
	tagMatch         []string

	isInitializedOnly bool

	syspaths []string
	cursor   int
	stale    bool
}

// resultChunk is the growth increment for the result list.
const resultChunk = 1024

// New returns an empty Enumerator bound to ctx.
func New(ctx *udev.Context) *Enumerator {
	return &Enumerator{ctx: ctx, stale: true}
}

// AddMatchSubsystem adds subsystem to the match list.
func (e *Enumerator) AddMatchSubsystem(subsystem string) {
	e.subsystemMatch = append(e.subsystemMatch, subsystem)
	e.stale = true
}

// AddNomatchSubsystem adds subsystem to the exclusion list.
func (e *Enumerator) AddNomatchSubsystem(subsystem string) {
	e.subsystemNoMatch = append(e.subsystemNoMatch, subsystem)
	e.stale = true
}

// AddMatchSysname adds a sysname (basename) glob to the match list.
func (e *Enumerator) AddMatchSysname(glob string) {
	e.sysnameMatch = append(e.sysnameMatch, glob)
	e.stale = true
}

// AddMatchParent restricts the scan to the subtree rooted at parent.
func (e *Enumerator) AddMatchParent(parent *udev.Device) {
	e.parent = parent
	e.stale = true
}

// AddMatchTag requires tag to be present on every matched device.
func (e *Enumerator) AddMatchTag(tag string) {
	e.tagMatch = append(e.tagMatch, tag)
	e.stale = true
}

// AddMatchProperty requires at least one property entry matching both
// keyGlob and valueGlob.
func (e *Enumerator) AddMatchProperty(keyGlob, valueGlob string) {
	e.propertyMatch = append(e.propertyMatch, propertyMatch{keyGlob, valueGlob})
	e.stale = true
}

// AddMatchSysattr requires sysattr's value to match valueGlob.
func (e *Enumerator) AddMatchSysattr(sysattr, valueGlob string) {
	e.sysattrMatch = append(e.sysattrMatch, propertyMatch{sysattr, valueGlob})
	e.stale = true
}

// AddNomatchSysattr excludes any device whose sysattr value matches
// valueGlob.
func (e *Enumerator) AddNomatchSysattr(sysattr, valueGlob string) {
	e.sysattrNoMatch = append(e.sysattrNoMatch, propertyMatch{sysattr, valueGlob})
	e.stale = true
}

// AddMatchIsInitialized restricts the scan to devices the daemon has
// finished processing (a persisted database record exists).
func (e *Enumerator) AddMatchIsInitialized() {
	e.isInitializedOnly = true
	e.stale = true
}

// AddSyspath validates syspath by constructing a Device record from
// it and, on success, appends that device's syspath to the result
// list directly, bypassing ScanDevices/ScanSubsystems filtering.
func (e *Enumerator) AddSyspath(syspath string) error {
	d, err := udev.NewFromSyspath(e.ctx, syspath)
	if err != nil {
		return err
	}
	e.appendResult(d.Syspath)
	return nil
}

func (e *Enumerator) appendResult(syspath string) {
	if e.syspaths == nil {
		e.syspaths = make([]string, 0, resultChunk)
	}
	for _, s := range e.syspaths {
		if s == syspath {
			return
		}
	}
	e.syspaths = append(e.syspaths, syspath)
}

// Syspaths returns the accumulated result list in the order entries
// were added; the scans visit directory entries in lexical name order.
func (e *Enumerator) Syspaths() []string {
	return e.syspaths
}

// Front resets the cursor and returns the first result, or "" if the
// list is empty. Mirrors the legacy "get next" iteration idiom used
// elsewhere in this module.
func (e *Enumerator) Front() string {
	if len(e.syspaths) == 0 {
		e.cursor = 0
		return ""
	}
	e.cursor = 1
	return e.syspaths[0]
}

// Next advances the cursor and returns the syspath it now points at,
// or "" once the list is exhausted.
func (e *Enumerator) Next() string {
	if e.cursor >= len(e.syspaths) {
		return ""
	}
	s := e.syspaths[e.cursor]
	e.cursor++
	return s
}
