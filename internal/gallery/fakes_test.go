package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var errCancelled = errors.New("user cancelled photos app")

type fakeCamera struct {
	photos  []*Photo
	err     error
	options []CaptureOptions
}

func (c *fakeCamera) Capture(_ context.Context, options CaptureOptions) (*Photo, error) {
	c.options = append(c.options, options)
	if c.err != nil {
		return nil, c.err
	}
	if len(c.photos) == 0 {
		return nil, errCancelled
	}
	photo := c.photos[0]
	c.photos = c.photos[1:]
	return photo, nil
}

type fakeFilesystem struct {
	mu       sync.Mutex
	files    map[string]string
	writeErr error
	readErr  map[string]error
	uriBase  string
	reads    []string
}

func newFakeFilesystem() *fakeFilesystem {
	return &fakeFilesystem{
		files:   map[string]string{},
		readErr: map[string]error{},
		uriBase: "file:///data/",
	}
}

func (f *fakeFilesystem) key(path string, directory Directory) string {
	return string(directory) + ":" + path
}

func (f *fakeFilesystem) WriteFile(_ context.Context, path string, data string, directory Directory) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.files[f.key(path, directory)] = data
	return f.uriBase + path, nil
}

func (f *fakeFilesystem) ReadFile(_ context.Context, path string, directory Directory) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, path)
	if err, ok := f.readErr[path]; ok {
		return "", err
	}
	data, ok := f.files[f.key(path, directory)]
	if !ok {
		return "", fmt.Errorf("file %s does not exist", path)
	}
	return data, nil
}

type fakePreferences struct {
	values map[string]string
	getErr error
	setErr error
	sets   int
}

func newFakePreferences() *fakePreferences {
	return &fakePreferences{values: map[string]string{}}
}

func (p *fakePreferences) Get(_ context.Context, key string) (string, bool, error) {
	if p.getErr != nil {
		return "", false, p.getErr
	}
	value, ok := p.values[key]
	return value, ok, nil
}

func (p *fakePreferences) Set(_ context.Context, key string, value string) error {
	p.sets++
	if p.setErr != nil {
		return p.setErr
	}
	p.values[key] = value
	return nil
}

type fakePlatform struct {
	hybrid bool
}

func (p fakePlatform) IsHybrid() bool { return p.hybrid }

func (p fakePlatform) ConvertFileSrc(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return "http://localhost/_capacitor_file_" + strings.TrimPrefix(uri, "file://")
	}
	return uri
}

type fakeLoader struct {
	bodies map[string][]byte
	err    error
}

func (l *fakeLoader) Load(_ context.Context, webPath string) ([]byte, error) {
	if l.err != nil {
		return nil, l.err
	}
	body, ok := l.bodies[webPath]
	if !ok {
		return nil, fmt.Errorf("no body for %s", webPath)
	}
	return body, nil
}

type fixture struct {
	camera      *fakeCamera
	filesystem  *fakeFilesystem
	preferences *fakePreferences
	loader      *fakeLoader
	platform    fakePlatform
	now         time.Time
}

func newFixture(hybrid bool) *fixture {
	return &fixture{
		camera:      &fakeCamera{},
		filesystem:  newFakeFilesystem(),
		preferences: newFakePreferences(),
		loader:      &fakeLoader{bodies: map[string][]byte{}},
		platform:    fakePlatform{hybrid: hybrid},
		now:         time.UnixMilli(1700000000000),
	}
}

// manager builds a manager whose clock advances one millisecond per capture
func (f *fixture) manager(options ...Option) *Manager {
	clock := f.now
	options = append([]Option{WithClock(func() time.Time {
		current := clock
		clock = clock.Add(time.Millisecond)
		return current
	})}, options...)

	manager, err := NewManager(Dependencies{
		Camera:      f.camera,
		Filesystem:  f.filesystem,
		Preferences: f.preferences,
		Platform:    f.platform,
		Loader:      f.loader,
	}, options...)
	if err != nil {
		panic(err)
	}
	return manager
}
