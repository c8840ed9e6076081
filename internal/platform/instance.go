package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another pomodesk process holds the lock.
// One engine per machine: a second timer would double-notify.
var ErrAlreadyRunning = errors.New("pomodesk already running")

// InstanceGuard holds the single-instance lock for the lifetime of the
// process. The lock is a deterministic localhost port derived from the
// app name, released automatically if the process dies.
type InstanceGuard struct {
	listener net.Listener
}

// AcquireInstance takes the single-instance lock or reports that another
// process already has it.
func AcquireInstance(appName string) (*InstanceGuard, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", instancePort(appName)))
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener}, nil
}

// Release frees the lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

func instancePort(appName string) int {
	const (
		minPort = 40000
		maxPort = 49999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	return minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
}
