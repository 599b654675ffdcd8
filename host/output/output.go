// Package output defines where parsed frames go on the host side.
package output

import "github.com/Dennis-van-Gils/project-windfarm-practicum/host/daqlink"

// Output consumes parsed frames. Implementations live in subpackages.
type Output interface {
	Publish(daqlink.Frame) error
	Close() error
}
