package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Tejashree-V/IBM-PROJECT/internal/identity"
	"github.com/Tejashree-V/IBM-PROJECT/internal/store"
	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

// MockStore implements TaskStore for handler tests.
type MockStore struct {
	ListFunc          func() ([]task.Task, error)
	CreateFunc        func(t task.Task) (*task.Task, error)
	UpdateFunc        func(id string, p task.Patch) (*task.Task, error)
	DeleteFunc        func(id string) error
	AddCommentFunc    func(id string, c task.Comment) (*task.Task, error)
	UpsertProfileFunc func(id, email string) error
}

func (m *MockStore) List() ([]task.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return []task.Task{}, nil
}

func (m *MockStore) Create(t task.Task) (*task.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(t)
	}
	t.ID = "generated"
	return &t, nil
}

func (m *MockStore) Update(id string, p task.Patch) (*task.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(id, p)
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) Delete(id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return store.ErrNotFound
}

func (m *MockStore) AddComment(id string, c task.Comment) (*task.Task, error) {
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(id, c)
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) UpsertProfile(id, email string) error {
	if m.UpsertProfileFunc != nil {
		return m.UpsertProfileFunc(id, email)
	}
	return nil
}

// MockVerifier implements TokenVerifier.
type MockVerifier struct {
	VerifyFunc func(ctx context.Context, token string) (*identity.User, error)
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (*identity.User, error) {
	return m.VerifyFunc(ctx, token)
}

func newTestServer(mock *MockStore) *Server {
	gin.SetMode(gin.TestMode)
	return New(mock, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHandleList(t *testing.T) {
	mock := &MockStore{
		ListFunc: func() ([]task.Task, error) {
			return []task.Task{
				{ID: "1", Title: "A", Status: task.StatusTodo, Priority: task.PriorityMedium},
				{ID: "2", Title: "B", Status: task.StatusReview, Priority: task.PriorityHigh},
			}, nil
		},
	}
	s := newTestServer(mock)

	w := doJSON(t, s, http.MethodGet, "/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var tasks []task.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "A" {
		t.Errorf("unexpected body: %+v", tasks)
	}
}

func TestHandleCreate(t *testing.T) {
	var got task.Task
	mock := &MockStore{
		CreateFunc: func(in task.Task) (*task.Task, error) {
			got = in
			in.ID = "abc"
			in.Status = task.StatusTodo
			in.Priority = task.PriorityMedium
			return &in, nil
		},
	}
	s := newTestServer(mock)

	w := doJSON(t, s, http.MethodPost, "/tasks", gin.H{
		"title":   "New task",
		"dueDate": "2026-05-01",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got.Title != "New task" {
		t.Errorf("store received title %q", got.Title)
	}
	if got.DueDate == nil || got.DueDate.Format("2006-01-02") != "2026-05-01" {
		t.Errorf("due date not parsed: %v", got.DueDate)
	}

	var created task.Task
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID != "abc" {
		t.Errorf("expected created task in response, got %s", w.Body.String())
	}
}

func TestHandleCreate_MissingTitle(t *testing.T) {
	s := newTestServer(&MockStore{})

	w := doJSON(t, s, http.MethodPost, "/tasks", gin.H{"description": "no title"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleCreate_BadDueDate(t *testing.T) {
	s := newTestServer(&MockStore{})

	w := doJSON(t, s, http.MethodPost, "/tasks", gin.H{"title": "x", "dueDate": "next tuesday"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleUpdate(t *testing.T) {
	mock := &MockStore{
		UpdateFunc: func(id string, p task.Patch) (*task.Task, error) {
			if id != "abc" {
				t.Errorf("expected id abc, got %q", id)
			}
			if p.Status == nil || *p.Status != task.StatusCompleted {
				t.Errorf("expected status patch, got %+v", p)
			}
			if p.Title != nil {
				t.Error("title should be absent from the patch")
			}
			return &task.Task{ID: id, Title: "kept", Status: *p.Status}, nil
		},
	}
	s := newTestServer(mock)

	w := doJSON(t, s, http.MethodPatch, "/tasks/abc", gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleUpdate_NotFound(t *testing.T) {
	s := newTestServer(&MockStore{})

	w := doJSON(t, s, http.MethodPatch, "/tasks/ghost", gin.H{"status": "completed"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	deleted := ""
	mock := &MockStore{
		DeleteFunc: func(id string) error {
			deleted = id
			return nil
		},
	}
	s := newTestServer(mock)

	w := doJSON(t, s, http.MethodDelete, "/tasks/abc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if deleted != "abc" {
		t.Errorf("expected delete of abc, got %q", deleted)
	}
}

func TestHandleDelete_NotFound(t *testing.T) {
	s := newTestServer(&MockStore{})

	w := doJSON(t, s, http.MethodDelete, "/tasks/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleAddComment(t *testing.T) {
	mock := &MockStore{
		AddCommentFunc: func(id string, c task.Comment) (*task.Task, error) {
			return &task.Task{ID: id, Title: "t", Comments: []task.Comment{c}}, nil
		},
	}
	s := newTestServer(mock)

	w := doJSON(t, s, http.MethodPost, "/tasks/abc/comments", gin.H{
		"content": "hello",
		"author":  "Alice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated task.Task
	json.Unmarshal(w.Body.Bytes(), &updated)
	if len(updated.Comments) != 1 || updated.Comments[0].Content != "hello" {
		t.Errorf("expected comment in response, got %s", w.Body.String())
	}
}

func TestHandleAddComment_EmptyContent(t *testing.T) {
	s := newTestServer(&MockStore{})

	w := doJSON(t, s, http.MethodPost, "/tasks/abc/comments", gin.H{"content": "  "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := &MockVerifier{
		VerifyFunc: func(_ context.Context, token string) (*identity.User, error) {
			if token == "good" {
				return &identity.User{ID: "u1", Email: "a@example.com"}, nil
			}
			return nil, &identity.Error{Status: http.StatusUnauthorized, Message: "bad token"}
		},
	}
	s := New(&MockStore{}, verifier)

	// No token.
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	// Bad token.
	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", w.Code)
	}

	// Good token.
	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with good token, got %d", w.Code)
	}

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 on healthz, got %d", w.Code)
	}
}

func TestCommentAuthorDefaultsToSessionEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := &MockVerifier{
		VerifyFunc: func(_ context.Context, _ string) (*identity.User, error) {
			return &identity.User{ID: "u1", Email: "a@example.com"}, nil
		},
	}
	var gotAuthor string
	mock := &MockStore{
		AddCommentFunc: func(id string, c task.Comment) (*task.Task, error) {
			gotAuthor = c.Author
			return &task.Task{ID: id}, nil
		},
	}
	s := New(mock, verifier)

	body := bytes.NewBufferString(`{"content":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/tasks/abc/comments", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotAuthor != "a@example.com" {
		t.Errorf("expected session email as author, got %q", gotAuthor)
	}
}

func TestHandleUpsertProfile(t *testing.T) {
	saved := map[string]string{}
	mock := &MockStore{
		UpsertProfileFunc: func(id, email string) error {
			saved[id] = email
			return nil
		},
	}
	s := newTestServer(mock)

	w := doJSON(t, s, http.MethodPost, "/profiles", gin.H{"id": "u9", "email": "x@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if saved["u9"] != "x@example.com" {
		t.Errorf("profile not saved: %v", saved)
	}
}
