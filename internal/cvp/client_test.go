package cvp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConnect(t *testing.T) {
	var gotLogin loginRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/web/login/authenticate.do", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotLogin); err != nil {
			t.Errorf("failed to decode login request: %v", err)
		}
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "session-1"})
		json.NewEncoder(w).Encode(loginResponse{SessionID: "session-1"})
	})
	mux.HandleFunc("/cvpservice/inventory/devices", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session_id"); err != nil || c.Value != "session-1" {
			t.Error("expected session cookie on inventory request")
		}
		json.NewEncoder(w).Encode([]Device{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(srv.URL, "admin", "secret")
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	if gotLogin.UserID != "admin" || gotLogin.Password != "secret" {
		t.Errorf("expected credentials in login request, got: %+v", gotLogin)
	}
	if client.SessionID() != "session-1" {
		t.Errorf("expected session ID session-1, got: %q", client.SessionID())
	}

	if _, err := client.Inventory(context.Background()); err != nil {
		t.Fatalf("failed to fetch inventory: %v", err)
	}
}

func TestConnectRejectsBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(APIError{Code: "112498", Message: "Unauthorized User"})
	}))
	defer srv.Close()

	client := New(srv.URL, "admin", "wrong")
	err := client.Connect(context.Background())
	if err == nil {
		t.Fatal("expected error for rejected login, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got: %v", err)
	}
	if apiErr.Code != "112498" {
		t.Errorf("expected error code 112498, got: %q", apiErr.Code)
	}
}

func TestContainerByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cvpservice/provisioning/searchTopology.do" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		// The search matches substrings; both names come back for "leaf".
		json.NewEncoder(w).Encode(searchTopologyResponse{ContainerList: []Container{
			{Key: "container_1", Name: "leaf-pod1"},
			{Key: "container_2", Name: "leaf"},
		}})
	}))
	defer srv.Close()

	client := New(srv.URL, "admin", "secret")

	t.Run("exact match wins", func(t *testing.T) {
		got, err := client.ContainerByName(context.Background(), "leaf")
		if err != nil {
			t.Fatalf("failed to find container: %v", err)
		}
		if got.Key != "container_2" {
			t.Errorf("expected exact-name container_2, got: %q", got.Key)
		}
	})

	t.Run("no exact match", func(t *testing.T) {
		_, err := client.ContainerByName(context.Background(), "leaf-pod2")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestDeviceByHostname(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Device{
			{Fqdn: "leaf1.dc1.lab", Hostname: "leaf1"},
			{Fqdn: "spine1.dc1.lab", Hostname: "spine1"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "admin", "secret")

	t.Run("by short name", func(t *testing.T) {
		got, err := client.DeviceByHostname(context.Background(), "spine1")
		if err != nil {
			t.Fatalf("failed to find device: %v", err)
		}
		if got.Fqdn != "spine1.dc1.lab" {
			t.Errorf("expected spine1.dc1.lab, got: %q", got.Fqdn)
		}
	})

	t.Run("miss", func(t *testing.T) {
		_, err := client.DeviceByHostname(context.Background(), "leaf9")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})
}

func TestConfigletByNameNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(APIError{Code: errCodeEntityNotFound, Message: "Entity does not exist"})
	}))
	defer srv.Close()

	client := New(srv.URL, "admin", "secret")
	_, err := client.ConfigletByName(context.Background(), "missing.conf")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestUpdateConfigletReturnsTaskIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req updateConfigletRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode update request: %v", err)
		}
		if req.Key != "configlet_7" {
			t.Errorf("expected configlet key in request, got: %q", req.Key)
		}
		w.Write([]byte(`{"data": {"taskIds": ["42", "43"]}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "admin", "secret")
	cfg := &Configlet{Key: "configlet_7", Name: "mgmt.conf"}
	taskIDs, err := client.UpdateConfiglet(context.Background(), cfg, "interface Management1")
	if err != nil {
		t.Fatalf("failed to update configlet: %v", err)
	}

	if len(taskIDs) != 2 || taskIDs[0] != "42" || taskIDs[1] != "43" {
		t.Errorf("expected task IDs [42 43], got: %v", taskIDs)
	}
}

func TestDoSurfacesServerErrors(t *testing.T) {
	t.Run("http 500", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := New(srv.URL, "admin", "secret")
		_, err := client.Inventory(context.Background())
		if err == nil {
			t.Fatal("expected error for 500 response, got nil")
		}
	})

	t.Run("http 401", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := New(srv.URL, "admin", "secret")
		_, err := client.Inventory(context.Background())
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got: %v", err)
		}
	})

	t.Run("api error in 200 body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(APIError{Code: "122518", Message: "Invalid request"})
		}))
		defer srv.Close()

		client := New(srv.URL, "admin", "secret")
		err := client.ExecuteTask(context.Background(), "42")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got: %v", err)
		}
		if apiErr.Code != "122518" {
			t.Errorf("expected error code 122518, got: %q", apiErr.Code)
		}
	})
}

func TestPendingTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("queryparam"); got != "Pending" {
			t.Errorf("expected queryparam Pending, got: %q", got)
		}
		json.NewEncoder(w).Encode(taskListResponse{
			Data: []Task{
				{ID: "42", Description: "Configlet push", Status: TaskPending},
				{ID: "43", Description: "Device move", Status: TaskPending},
			},
			Total: 2,
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "admin", "secret")
	tasks, err := client.PendingTasks(context.Background())
	if err != nil {
		t.Fatalf("failed to list pending tasks: %v", err)
	}

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got: %d", len(tasks))
	}
	if tasks[0].ID != "42" || tasks[0].Status != TaskPending {
		t.Errorf("unexpected first task: %+v", tasks[0])
	}
}

func TestCreateChangeControl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cc ChangeControl
		if err := json.NewDecoder(r.Body).Decode(&cc); err != nil {
			t.Errorf("failed to decode change control: %v", err)
		}
		if cc.Name != "maintenance-window" {
			t.Errorf("expected change control name, got: %q", cc.Name)
		}
		w.Write([]byte(`{"data": {"ccId": "cc-17"}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "admin", "secret")
	id, err := client.CreateChangeControl(context.Background(), &ChangeControl{Name: "maintenance-window"})
	if err != nil {
		t.Fatalf("failed to create change control: %v", err)
	}
	if id != "cc-17" {
		t.Errorf("expected change control ID cc-17, got: %q", id)
	}
}

func TestTaskStatus(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		terminal bool
		failure  bool
	}{
		{TaskActive, false, false},
		{TaskPending, false, false},
		{TaskInProgress, false, false},
		{TaskCompleted, true, false},
		{TaskFailed, true, true},
		{TaskCancelled, true, true},
		{TaskStatus("CANCELED"), true, true},
		{TaskStatus("SOMETHING_NEW"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Terminal(); got != tt.terminal {
				t.Errorf("expected Terminal %v, got: %v", tt.terminal, got)
			}
			if got := tt.status.Failure(); got != tt.failure {
				t.Errorf("expected Failure %v, got: %v", tt.failure, got)
			}
		})
	}
}
