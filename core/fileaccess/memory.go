package fileaccess

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var errMemNotFound = fmt.Errorf("object not found")

// MemoryAccess - in-memory file access, used by unit tests and small
// command line tools that don't want to touch the file system.
type MemoryAccess struct {
	mutex   sync.Mutex
	objects map[string][]byte
}

func MakeMemoryAccess() *MemoryAccess {
	return &MemoryAccess{objects: map[string][]byte{}}
}

func (m *MemoryAccess) key(bucket string, path string) string {
	return bucket + "/" + path
}

func (m *MemoryAccess) ListObjects(bucket string, prefix string) ([]string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := []string{}
	root := bucket + "/"
	for k := range m.objects {
		if strings.HasPrefix(k, root) && strings.HasPrefix(k[len(root):], prefix) {
			result = append(result, k[len(root):])
		}
	}
	sort.Strings(result)
	return result, nil
}

func (m *MemoryAccess) ObjectExists(bucket string, path string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, ok := m.objects[m.key(bucket, path)]
	return ok, nil
}

func (m *MemoryAccess) ReadObject(bucket string, path string) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	data, ok := m.objects[m.key(bucket, path)]
	if !ok {
		return nil, errMemNotFound
	}
	return data, nil
}

func (m *MemoryAccess) WriteObject(bucket string, path string, data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	saved := make([]byte, len(data))
	copy(saved, data)
	m.objects[m.key(bucket, path)] = saved
	return nil
}

func (m *MemoryAccess) ReadJSON(bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	data, err := m.ReadObject(bucket, path)
	if err != nil {
		if emptyIfNotFound && m.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, itemsPtr)
}

func (m *MemoryAccess) WriteJSON(bucket string, path string, itemsPtr interface{}) error {
	data, err := json.MarshalIndent(itemsPtr, "", "    ")
	if err != nil {
		return err
	}
	return m.WriteObject(bucket, path, data)
}

func (m *MemoryAccess) DeleteObject(bucket string, path string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	k := m.key(bucket, path)
	if _, ok := m.objects[k]; !ok {
		return errMemNotFound
	}
	delete(m.objects, k)
	return nil
}

func (m *MemoryAccess) IsNotFoundError(err error) bool {
	return err == errMemNotFound
}
