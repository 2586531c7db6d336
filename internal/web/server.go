package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"menu-planner/internal/grocery"
	"menu-planner/internal/mealplan"
	"menu-planner/internal/recipe"
)

// RecipeStore is the recipe persistence the handlers depend on.
type RecipeStore interface {
	Save(ctx context.Context, rec *recipe.Recipe) (int64, error)
	Update(ctx context.Context, rec *recipe.Recipe) error
	Get(ctx context.Context, id int64) (*recipe.Recipe, error)
	List(ctx context.Context) ([]recipe.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

// PlanStore is the assignment/eating-out persistence the handlers depend on.
type PlanStore interface {
	CreateAssignment(ctx context.Context, a *mealplan.Assignment) (int64, error)
	ListAssignments(ctx context.Context) ([]mealplan.Assignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	ClearWeek(ctx context.Context) error
	SetEatingOut(ctx context.Context, day int, meal mealplan.MealType) error
	UnsetEatingOut(ctx context.Context, day int, meal mealplan.MealType) error
	EatingOutSlots(ctx context.Context) (map[string]bool, error)
}

// GroceryService is the pipeline surface the handlers trigger.
type GroceryService interface {
	RebuildGroceryList(ctx context.Context) ([]grocery.Item, error)
	GroceryList(ctx context.Context) ([]grocery.Item, error)
	ToggleItem(ctx context.Context, id int64) (bool, error)
	ClearGroceryList(ctx context.Context) error
}

// Server exposes the planner over a JSON HTTP API.
type Server struct {
	recipes RecipeStore
	plan    PlanStore
	grocery GroceryService
}

// NewServer creates a new Server.
func NewServer(recipes RecipeStore, plan PlanStore, groceryService GroceryService) *Server {
	return &Server{recipes: recipes, plan: plan, grocery: groceryService}
}

// Router returns the HTTP handler for the API.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/api/recipes", s.handleRecipes)
	mux.HandleFunc("/api/recipes/", s.handleRecipeByID)
	mux.HandleFunc("/api/assignments", s.handleAssignments)
	mux.HandleFunc("/api/assignments/", s.handleAssignmentByID)
	mux.HandleFunc("/api/eating-out", s.handleEatingOut)
	mux.HandleFunc("/api/grocery", s.handleGrocery)
	mux.HandleFunc("/api/grocery/rebuild", s.handleGroceryRebuild)
	mux.HandleFunc("/api/grocery/items/", s.handleGroceryItem)

	return mux
}

type recipeRequest struct {
	Name        string   `json:"name"`
	Servings    string   `json:"servings"`
	Ingredients []string `json:"ingredients"`
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		recipes, err := s.recipes.List(r.Context())
		if err != nil {
			serverError(w, "listing recipes", err)
			return
		}
		if recipes == nil {
			recipes = []recipe.Recipe{}
		}
		writeJSON(w, http.StatusOK, recipes)
	case http.MethodPost:
		var req recipeRequest
		if !readJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			http.Error(w, "recipe name is required", http.StatusBadRequest)
			return
		}
		rec := &recipe.Recipe{
			Name:        req.Name,
			Servings:    req.Servings,
			Ingredients: recipe.FromLines(req.Ingredients),
		}
		id, err := s.recipes.Save(r.Context(), rec)
		if err != nil {
			serverError(w, "saving recipe", err)
			return
		}
		rec.ID = id
		writeJSON(w, http.StatusCreated, rec)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRecipeByID(w http.ResponseWriter, r *http.Request) {
	id, ok := trailingID(w, r.URL.Path, "/api/recipes/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := s.recipes.Get(r.Context(), id)
		if err != nil {
			serverError(w, "getting recipe", err)
			return
		}
		if rec == nil {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodPut:
		var req recipeRequest
		if !readJSON(w, r, &req) {
			return
		}
		rec := &recipe.Recipe{
			ID:          id,
			Name:        req.Name,
			Servings:    req.Servings,
			Ingredients: recipe.FromLines(req.Ingredients),
		}
		if err := s.recipes.Update(r.Context(), rec); err != nil {
			serverError(w, "updating recipe", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		if err := s.recipes.Delete(r.Context(), id); err != nil {
			serverError(w, "deleting recipe", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

type assignmentRequest struct {
	RecipeID        int64             `json:"recipeId"`
	DayOfWeek       int               `json:"dayOfWeek"`
	MealType        mealplan.MealType `json:"mealType"`
	PlannedServings json.RawMessage   `json:"plannedServings"`
}

func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		assignments, err := s.plan.ListAssignments(r.Context())
		if err != nil {
			serverError(w, "listing assignments", err)
			return
		}
		if assignments == nil {
			assignments = []mealplan.Assignment{}
		}
		writeJSON(w, http.StatusOK, assignments)
	case http.MethodPost:
		var req assignmentRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
			http.Error(w, "dayOfWeek must be between 0 and 6", http.StatusBadRequest)
			return
		}
		if !req.MealType.Valid() {
			http.Error(w, "mealType must be breakfast, lunch or dinner", http.StatusBadRequest)
			return
		}
		a := &mealplan.Assignment{
			RecipeID:        req.RecipeID,
			DayOfWeek:       req.DayOfWeek,
			MealType:        req.MealType,
			PlannedServings: parseServingsValue(req.PlannedServings),
		}
		id, err := s.plan.CreateAssignment(r.Context(), a)
		if err != nil {
			serverError(w, "creating assignment", err)
			return
		}
		a.ID = id
		writeJSON(w, http.StatusCreated, a)
	case http.MethodDelete:
		// Clear the whole week.
		if err := s.plan.ClearWeek(r.Context()); err != nil {
			serverError(w, "clearing week", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAssignmentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := trailingID(w, r.URL.Path, "/api/assignments/")
	if !ok {
		return
	}
	if err := s.plan.DeleteAssignment(r.Context(), id); err != nil {
		serverError(w, "deleting assignment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type slotRequest struct {
	DayOfWeek int               `json:"dayOfWeek"`
	MealType  mealplan.MealType `json:"mealType"`
}

func (s *Server) handleEatingOut(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		slots, err := s.plan.EatingOutSlots(r.Context())
		if err != nil {
			serverError(w, "listing eating-out slots", err)
			return
		}
		keys := make([]string, 0, len(slots))
		for key := range slots {
			keys = append(keys, key)
		}
		writeJSON(w, http.StatusOK, keys)
	case http.MethodPost, http.MethodDelete:
		var req slotRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.DayOfWeek < 0 || req.DayOfWeek > 6 || !req.MealType.Valid() {
			http.Error(w, "invalid day/meal slot", http.StatusBadRequest)
			return
		}
		var err error
		if r.Method == http.MethodPost {
			err = s.plan.SetEatingOut(r.Context(), req.DayOfWeek, req.MealType)
		} else {
			err = s.plan.UnsetEatingOut(r.Context(), req.DayOfWeek, req.MealType)
		}
		if err != nil {
			serverError(w, "updating eating-out slot", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGrocery(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.grocery.GroceryList(r.Context())
		if err != nil {
			serverError(w, "listing grocery items", err)
			return
		}
		if items == nil {
			items = []grocery.Item{}
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodDelete:
		if err := s.grocery.ClearGroceryList(r.Context()); err != nil {
			serverError(w, "clearing grocery list", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGroceryRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	items, err := s.grocery.RebuildGroceryList(r.Context())
	if err != nil {
		// The previous list stays authoritative; tell the client to retry.
		log.Printf("Error rebuilding grocery list: %v", err)
		http.Error(w, "grocery list recompute failed, previous list unchanged", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGroceryItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/grocery/items/")
	idText, action, found := strings.Cut(rest, "/")
	if !found || action != "toggle" {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	checked, err := s.grocery.ToggleItem(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, "grocery item not found", http.StatusNotFound)
			return
		}
		serverError(w, "toggling grocery item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "checked": checked})
}

// parseServingsValue accepts planned servings as a JSON number or as a string
// with an optional comma decimal separator ("2,5"). Anything unusable comes
// back as 0, which the aggregator treats as "fall back to base servings".
func parseServingsValue(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
		if err == nil {
			return v
		}
	}
	return 0
}

func trailingID(w http.ResponseWriter, path, prefix string) (int64, bool) {
	idText := strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/")
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func serverError(w http.ResponseWriter, action string, err error) {
	log.Printf("Error %s: %v", action, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
