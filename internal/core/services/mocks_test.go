package services

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.Embedder with canned vectors per text.
type mockEmbedder struct {
	vectors map[string][]float32
	fixed   []float32
	err     error
	dims    int
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	if m.fixed != nil {
		return m.fixed, nil
	}
	return make([]float32, m.dims), nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return len(m.fixed)
}

// mockInsight implements driven.TextInsight with canned extraction results
// keyed by file base name.
type mockInsight struct {
	texts    map[string]string
	summary  string
	sumErr   error
	embedErr error
	vector   []float32
	embeds   int
}

func (m *mockInsight) ExtractText(_ context.Context, localPath string) string {
	return m.texts[filepath.Base(localPath)]
}

func (m *mockInsight) Embed(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}
	m.embeds++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector, nil
}

func (m *mockInsight) Summarize(_ context.Context, _ string) (string, error) {
	if m.sumErr != nil {
		return "", m.sumErr
	}
	return m.summary, nil
}

func (m *mockInsight) Transcribe(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (m *mockInsight) Dimensions() int { return len(m.vector) }

func (m *mockInsight) Ping(_ context.Context) error { return nil }

func (m *mockInsight) Close() error { return nil }

// mockCloudStore implements driven.CloudStore over an in-memory folder map.
// It behaves path-addressed by default; set parentsMode for id-addressed
// behavior with Parents membership lists.
type mockCloudStore struct {
	service     string
	objects     map[string][]domain.RemoteObject
	content     map[string]string
	downloadErr map[string]error
	listErr     error
	moves       []string
	folders     []string
	parentsMode bool
}

func newMockCloudStore(service string) *mockCloudStore {
	return &mockCloudStore{
		service:     service,
		objects:     map[string][]domain.RemoteObject{"": {}},
		content:     make(map[string]string),
		downloadErr: make(map[string]error),
	}
}

func (m *mockCloudStore) addFile(folder, name, text string) {
	locator := path.Join("/", folder, name)
	obj := domain.RemoteObject{
		Locator: locator,
		Name:    name,
		Path:    locator,
	}
	if m.parentsMode {
		obj.Locator = "id-" + name
		if folder != "" {
			obj.Parents = []string{"fid-" + strings.ToLower(folder)}
		} else {
			obj.Parents = []string{"root"}
		}
	}
	m.objects[folderKey(folder)] = append(m.objects[folderKey(folder)], obj)
	m.content[obj.Locator] = text
}

func (m *mockCloudStore) addFolder(name string) {
	obj := domain.RemoteObject{
		Locator:  path.Join("/", name),
		Name:     name,
		Path:     path.Join("/", name),
		IsFolder: true,
	}
	if m.parentsMode {
		obj.Locator = "fid-" + strings.ToLower(name)
	}
	m.objects[""] = append(m.objects[""], obj)
	if _, ok := m.objects[obj.Locator]; !ok {
		m.objects[obj.Locator] = []domain.RemoteObject{}
	}
}

func folderKey(folder string) string {
	if folder == "" {
		return ""
	}
	return path.Join("/", folder)
}

func (m *mockCloudStore) Service() string { return m.service }

func (m *mockCloudStore) List(_ context.Context, folder string) ([]domain.RemoteObject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	key := folder
	if m.parentsMode && folder == "" {
		key = ""
	}
	objs, ok := m.objects[key]
	if !ok {
		return nil, errors.New("no such folder: " + folder)
	}
	return objs, nil
}

func (m *mockCloudStore) Upload(_ context.Context, _, name, destFolder string) (string, error) {
	m.addFile(destFolder, name, "")
	return "https://example.test/" + name, nil
}

func (m *mockCloudStore) Download(_ context.Context, locator, localPath string) error {
	if err := m.downloadErr[locator]; err != nil {
		return err
	}
	text, ok := m.content[locator]
	if !ok {
		return domain.ErrDownloadFailed
	}
	return os.WriteFile(localPath, []byte(text), 0600)
}

func (m *mockCloudStore) Delete(_ context.Context, locator string) error {
	delete(m.content, locator)
	return nil
}

func (m *mockCloudStore) Move(_ context.Context, locator, destFolder string) (string, error) {
	m.moves = append(m.moves, locator+" -> "+destFolder)
	var moved *domain.RemoteObject
	for key, objs := range m.objects {
		for i := range objs {
			if objs[i].Locator == locator {
				moved = &objs[i]
				m.objects[key] = append(objs[:i:i], objs[i+1:]...)
				break
			}
		}
		if moved != nil {
			break
		}
	}
	if moved == nil {
		return "", domain.ErrNotFound
	}

	obj := *moved
	if m.parentsMode {
		obj.Parents = []string{destFolder}
	} else {
		obj.Locator = path.Join(destFolder, obj.Name)
		obj.Path = obj.Locator
	}
	m.objects[destFolder] = append(m.objects[destFolder], obj)
	return obj.Locator, nil
}

func (m *mockCloudStore) CreateFolder(_ context.Context, name, _ string) (string, error) {
	m.folders = append(m.folders, name)
	id := path.Join("/", name)
	if m.parentsMode {
		id = "fid-" + strings.ToLower(name)
	}
	if _, ok := m.objects[id]; !ok {
		m.objects[id] = []domain.RemoteObject{}
	}
	return id, nil
}

func (m *mockCloudStore) ShareLink(_ context.Context, locator string) (string, error) {
	return "https://example.test" + locator, nil
}

func (m *mockCloudStore) Close() error { return nil }

// cloudStores adapts mocks to the port slice the services expect.
func cloudStores(stores ...*mockCloudStore) []driven.CloudStore {
	out := make([]driven.CloudStore, len(stores))
	for i, s := range stores {
		out[i] = s
	}
	return out
}

// mockConfigStore is an in-memory driven.ConfigStore.
type mockConfigStore struct {
	data   map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	v, _ := m.data[key].(string)
	return v
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat64(key string) float64 {
	switch v := m.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	v, _ := m.data[key].(bool)
	return v
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	v, _ := m.data[key].([]string)
	return v
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "mock://config.toml"
}

var _ driven.CloudStore = (*mockCloudStore)(nil)
var _ driven.TextInsight = (*mockInsight)(nil)
var _ driven.Embedder = (*mockEmbedder)(nil)
var _ driven.ConfigStore = (*mockConfigStore)(nil)
