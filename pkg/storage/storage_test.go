package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// exercise runs the common Storage contract against st.
func exercise(t *testing.T, st Storage) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := st.GetItem(ctx, "missing"); err != nil || ok {
		t.Fatalf("GetItem(missing) = ok %v, err %v; want absent", ok, err)
	}

	if err := st.SetItem(ctx, "a", "1"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if err := st.SetItem(ctx, "a", "2"); err != nil {
		t.Fatalf("SetItem overwrite: %v", err)
	}
	v, ok, err := st.GetItem(ctx, "a")
	if err != nil || !ok || v != "2" {
		t.Fatalf("GetItem(a) = %q, %v, %v; want \"2\", true, nil", v, ok, err)
	}

	if err := st.RemoveItem(ctx, "a"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, ok, _ := st.GetItem(ctx, "a"); ok {
		t.Error("key still present after RemoveItem")
	}
	if err := st.RemoveItem(ctx, "a"); err != nil {
		t.Errorf("RemoveItem on absent key: %v", err)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryClose(t *testing.T) {
	m := NewMemory()
	m.SetItem(context.Background(), "k", "v")
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	m.Close()

	if _, _, err := m.GetItem(context.Background(), "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("GetItem after Close: err = %v, want ErrClosed", err)
	}
	if err := m.SetItem(context.Background(), "k", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("SetItem after Close: err = %v, want ErrClosed", err)
	}
}

func TestMemoryConcurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			m.SetItem(ctx, key, key)
			m.GetItem(ctx, key)
		}(i)
	}
	wg.Wait()

	if m.Len() != 20 {
		t.Errorf("Len = %d, want 20", m.Len())
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	exercise(t, f)
}

func TestFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := f.SetItem(ctx, "contractflow_state", `{"darkMode":true}`); err != nil {
		t.Fatalf("SetItem: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, _ := reopened.GetItem(ctx, "contractflow_state")
	if !ok || v != `{"darkMode":true}` {
		t.Errorf("after reopen got %q, %v", v, ok)
	}
	if reopened.Path() != path {
		t.Errorf("Path = %q, want %q", reopened.Path(), path)
	}
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()
	exercise(t, db)
}

func TestSQLiteInMemory(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	db.SetItem(ctx, "k", "one")
	db.SetItem(ctx, "k", "two")
	v, ok, err := db.GetItem(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Errorf("GetItem = %q, %v, %v; want upserted value", v, ok, err)
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()

	alice := Scoped(base, "alice")
	bob := Scoped(base, "/bob/")
	exercise(t, alice)

	alice.SetItem(ctx, "token", "a")
	bob.SetItem(ctx, "token", "b")

	if v, _, _ := alice.GetItem(ctx, "token"); v != "a" {
		t.Errorf("alice token = %q", v)
	}
	if v, _, _ := bob.GetItem(ctx, "token"); v != "b" {
		t.Errorf("bob token = %q", v)
	}
	if v, ok, _ := base.GetItem(ctx, "bob/token"); !ok || v != "b" {
		t.Errorf("underlying key bob/token = %q, %v", v, ok)
	}

	if Scoped(base, "") != Storage(base) {
		t.Error("empty namespace should return the backend unchanged")
	}
}

// fakeS3 is an in-memory S3API.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3(t *testing.T) {
	fake := newFakeS3()
	exercise(t, NewS3(fake, "bucket", "sessions"))
}

func TestS3Prefix(t *testing.T) {
	fake := newFakeS3()
	st := NewS3(fake, "bucket", "sessions")
	st.SetItem(context.Background(), "k", "v")

	if _, ok := fake.objects["bucket/sessions/k"]; !ok {
		t.Errorf("object not stored under prefix; have %v", fake.objects)
	}
}

func TestS3Error(t *testing.T) {
	fake := newFakeS3()
	fake.fail = errors.New("boom")
	st := NewS3(fake, "bucket", "")

	if _, _, err := st.GetItem(context.Background(), "k"); err == nil {
		t.Error("expected GetItem error")
	}
	if err := st.SetItem(context.Background(), "k", "v"); err == nil {
		t.Error("expected SetItem error")
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(S3Config{
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	})
	opts := client.Options()
	if opts.Region != "us-east-1" {
		t.Errorf("Region = %q", opts.Region)
	}
	if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Errorf("BaseEndpoint = %v", opts.BaseEndpoint)
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil || creds.AccessKeyID != "key" {
		t.Errorf("Credentials = %+v, %v", creds, err)
	}
}
