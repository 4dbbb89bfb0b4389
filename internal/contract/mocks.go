package contract

import (
	"context"
	"net/url"

	"github.com/gcopen/cheetah/schema"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of Transport for testing.
type MockTransport struct {
	mock.Mock
}

var _ Transport = &MockTransport{} // Compile-time check

// Get implements the Transport interface.
func (m *MockTransport) Get(ctx context.Context, identifier string, query url.Values) (Response, error) {
	ret := m.Called(ctx, identifier, query)
	return ret.Get(0).(Response), ret.Error(1)
}

// MockDiscovery is a mock implementation of Discovery for testing.
type MockDiscovery struct {
	mock.Mock
}

var _ Discovery = &MockDiscovery{} // Compile-time check

// ListSubdirectories implements the Discovery interface.
func (m *MockDiscovery) ListSubdirectories(root string) ([]string, error) {
	ret := m.Called(root)
	names, _ := ret.Get(0).([]string)
	return names, ret.Error(1)
}

// ListFiles implements the Discovery interface.
func (m *MockDiscovery) ListFiles(dir string) ([]string, error) {
	ret := m.Called(dir)
	names, _ := ret.Get(0).([]string)
	return names, ret.Error(1)
}

// ReadFile implements the Discovery interface.
func (m *MockDiscovery) ReadFile(path string) ([]byte, error) {
	ret := m.Called(path)
	data, _ := ret.Get(0).([]byte)
	return data, ret.Error(1)
}

// MockTableStore is a mock implementation of TableStore for testing.
type MockTableStore struct {
	mock.Mock
}

var _ TableStore = &MockTableStore{} // Compile-time check

// SaveTable implements the TableStore interface.
func (m *MockTableStore) SaveTable(req SaveRequest) (int64, error) {
	ret := m.Called(req)
	return ret.Get(0).(int64), ret.Error(1)
}

// GetStatus implements the TableStore interface.
func (m *MockTableStore) GetStatus() (schema.StoreStatus, error) {
	ret := m.Called()
	return ret.Get(0).(schema.StoreStatus), ret.Error(1)
}

// GetAllRuns implements the TableStore interface.
func (m *MockTableStore) GetAllRuns() ([]schema.ExportRunRecord, error) {
	ret := m.Called()
	runs, _ := ret.Get(0).([]schema.ExportRunRecord)
	return runs, ret.Error(1)
}

// GetAllCells implements the TableStore interface.
func (m *MockTableStore) GetAllCells() ([]schema.ExportCellRecord, error) {
	ret := m.Called()
	cells, _ := ret.Get(0).([]schema.ExportCellRecord)
	return cells, ret.Error(1)
}

// Close implements the TableStore interface.
func (m *MockTableStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
