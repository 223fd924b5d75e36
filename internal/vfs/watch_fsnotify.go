package vfs

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FSNotifyWatcher implements Watcher using fsnotify for OS-native notifications.
type FSNotifyWatcher struct {
	w   *fsnotify.Watcher
	evC chan Event
	erC chan error

	done     chan struct{}
	stopped  chan struct{}
	doneOnce sync.Once
}

// NewFSWatcher creates a new FSNotifyWatcher.
func NewFSWatcher() (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FSNotifyWatcher{
		w:       w,
		evC:     make(chan Event, 128),
		erC:     make(chan error, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

// loop forwards fsnotify events until the watcher is closed. Sends give up
// on Close, so a consumer that stopped reading cannot block it.
func (fw *FSNotifyWatcher) loop() {
	defer close(fw.stopped)
	defer close(fw.evC)
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: translateOp(ev.Op), Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func translateOp(o fsnotify.Op) WatchOp {
	var op WatchOp
	if o.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if o.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if o.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if o.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if o.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}

func (fw *FSNotifyWatcher) Events() <-chan Event     { return fw.evC }
func (fw *FSNotifyWatcher) Errors() <-chan error     { return fw.erC }
func (fw *FSNotifyWatcher) Add(name string) error    { return fw.w.Add(name) }
func (fw *FSNotifyWatcher) Remove(name string) error { return fw.w.Remove(name) }

// Close stops the watcher and waits for its event loop to exit. The Events
// channel is closed afterwards.
func (fw *FSNotifyWatcher) Close() error {
	fw.doneOnce.Do(func() { close(fw.done) })
	err := fw.w.Close()
	<-fw.stopped
	return err
}
