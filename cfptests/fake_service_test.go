package cfptests

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// fakeService is an in-memory stand-in for the finance service, used to exercise the suite.
// By default it behaves the way the suite expects, including the goal/limit deletion defect.
type fakeService struct {
	tokenInBody     bool
	cookieAuth      bool
	omitCategoryID  bool
	goalDeleteFixed bool
	signOutStatus   int
	protectedDelay  time.Duration

	// unguardedCleanup lets sign-out and deletions through without credentials.
	unguardedCleanup bool

	lock         sync.Mutex
	users        map[string]string
	sessions     map[string]string
	categories   map[string]string
	goals        map[string]float64
	nextID       int
	signOutCalls int
}

func newFakeService() *fakeService {
	return &fakeService{
		tokenInBody: true,
		cookieAuth:  true,
		users:       make(map[string]string),
		sessions:    make(map[string]string),
		categories:  make(map[string]string),
		goals:       make(map[string]float64),
	}
}

func (s *fakeService) register(email, password string) {
	s.lock.Lock()
	s.users[email] = password
	s.lock.Unlock()
}

func (s *fakeService) signOutCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.signOutCalls
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *fakeService) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s%04d", prefix, s.nextID)
}

func (s *fakeService) authorized(r *http.Request) bool {
	if c, err := r.Cookie("token"); err == nil {
		if _, ok := s.sessions[c.Value]; ok {
			return true
		}
	}
	if token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "); token != "" {
		if _, ok := s.sessions[token]; ok {
			return true
		}
	}
	return false
}

func readBody(r *http.Request) (map[string]interface{}, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, false
	}
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, false
	}
	return body, true
}

func (s *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == pathProtectedRoute && s.protectedDelay > 0 {
		time.Sleep(s.protectedDelay)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	route := r.Method + " " + r.URL.Path
	switch route {
	case "POST " + pathSignUp:
		s.signUp(w, r)
		return
	case "POST " + pathSignIn:
		s.signIn(w, r)
		return
	}

	cleanup := r.Method == http.MethodDelete || route == "GET "+pathSignOut
	if !s.authorized(r) && !(s.unguardedCleanup && cleanup) {
		writeJSON(w, 400, map[string]interface{}{"success": false, "message": messageUnauthorized})
		return
	}

	switch {
	case route == "GET "+pathSignOut:
		s.signOutCalls++
		status := s.signOutStatus
		if status == 0 {
			status = 201
		}
		writeJSON(w, status, map[string]interface{}{"success": status == 201})

	case route == "GET "+pathProtectedRoute:
		writeJSON(w, 200, map[string]interface{}{"success": true})

	case route == "POST "+pathAddCategory:
		body, ok := readBody(r)
		if !ok {
			writeJSON(w, 400, map[string]interface{}{"success": false, "message": "Invalid JSON"})
			return
		}
		id := s.newID("cat-")
		s.categories[id], _ = body["categoryName"].(string)
		resp := map[string]interface{}{"success": true, "message": "Category added successfully"}
		if !s.omitCategoryID {
			resp["categoryId"] = id
		}
		writeJSON(w, 200, resp)

	case route == "GET "+pathGetCategory:
		var list []interface{}
		for id, name := range s.categories {
			list = append(list, map[string]interface{}{"_id": id, "categoryName": name})
		}
		writeJSON(w, 200, map[string]interface{}{"success": true, "categories": list})

	case r.Method == "DELETE" && strings.HasPrefix(r.URL.Path, pathDeleteCategory):
		id := strings.TrimPrefix(r.URL.Path, pathDeleteCategory)
		if _, ok := s.categories[id]; !ok {
			writeJSON(w, 404, map[string]interface{}{"success": false})
			return
		}
		delete(s.categories, id)
		writeJSON(w, 200, map[string]interface{}{"success": true})

	case route == "POST "+pathGoalsLimits:
		body, ok := readBody(r)
		if !ok {
			writeJSON(w, 400, map[string]interface{}{"success": false, "message": "Invalid JSON"})
			return
		}
		id := s.newID("goal-")
		s.goals[id], _ = body["amount"].(float64)
		writeJSON(w, 201, map[string]interface{}{"success": true, "goalLimit": map[string]interface{}{"_id": id, "amount": body["amount"]}})

	case route == "GET "+pathGoalsLimits:
		var list []interface{}
		for id, amount := range s.goals {
			list = append(list, map[string]interface{}{"_id": id, "amount": amount})
		}
		writeJSON(w, 200, map[string]interface{}{"success": true, "goalsLimits": list})

	case strings.HasPrefix(r.URL.Path, pathGoalsLimits+"/"):
		id := strings.TrimPrefix(r.URL.Path, pathGoalsLimits+"/")
		if _, ok := s.goals[id]; !ok {
			writeJSON(w, 404, map[string]interface{}{"success": false})
			return
		}
		switch r.Method {
		case "PUT":
			body, ok := readBody(r)
			if !ok {
				writeJSON(w, 400, map[string]interface{}{"success": false})
				return
			}
			s.goals[id], _ = body["amount"].(float64)
			writeJSON(w, 200, map[string]interface{}{"success": true})
		case "DELETE":
			if s.goalDeleteFixed {
				delete(s.goals, id)
				writeJSON(w, 200, map[string]interface{}{"success": true})
				return
			}
			writeJSON(w, 500, map[string]interface{}{"success": false, "message": KnownDefectGoalLimitDelete})
		default:
			w.WriteHeader(405)
		}

	case route == "POST "+pathAddTransaction:
		body, ok := readBody(r)
		if !ok {
			writeJSON(w, 400, map[string]interface{}{"success": false})
			return
		}
		if _, ok := s.categories[fmt.Sprint(body["categoryId"])]; !ok {
			writeJSON(w, 404, map[string]interface{}{"success": false, "message": "Category not found"})
			return
		}
		writeJSON(w, 200, map[string]interface{}{"success": true, "transactionId": s.newID("tx-")})

	default:
		writeJSON(w, 404, map[string]interface{}{"success": false, "message": "Not found"})
	}
}

func (s *fakeService) signUp(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		writeJSON(w, 400, map[string]interface{}{"success": false, "message": "Invalid JSON"})
		return
	}
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	if _, exists := s.users[email]; exists {
		writeJSON(w, 400, map[string]interface{}{"success": false, "message": "User already exists"})
		return
	}
	s.users[email] = password
	writeJSON(w, 201, map[string]interface{}{"success": true, "message": "User created successfully"})
}

func (s *fakeService) signIn(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		writeJSON(w, 400, map[string]interface{}{"success": false, "message": "Invalid JSON"})
		return
	}
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	if stored, exists := s.users[email]; !exists || stored != password {
		writeJSON(w, 400, map[string]interface{}{"success": false, "message": "Invalid credentials"})
		return
	}
	token := s.newID("tok-")
	s.sessions[token] = email
	if s.cookieAuth {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: token, Path: "/", HttpOnly: true})
	}
	resp := map[string]interface{}{"success": true, "message": "User signed in successfully"}
	if s.tokenInBody {
		resp["token"] = token
	}
	writeJSON(w, 200, resp)
}
