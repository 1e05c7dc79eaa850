package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"campus-feedback-backend/internal/analytics"
	"campus-feedback-backend/internal/middleware"
	"campus-feedback-backend/internal/models"
	"campus-feedback-backend/internal/notify"
	"campus-feedback-backend/internal/sentiment"
)

const accessDeniedMessage = "Access denied. Admin only."

// FeedbackStore is the slice of the feedback repository the handlers need.
type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindAll(ctx context.Context) ([]models.Feedback, error)
	FindByStudent(ctx context.Context, studentID string) ([]models.Feedback, error)
}

type FeedbackHandler struct {
	store      FeedbackStore
	classifier sentiment.Classifier
	notifier   notify.Notifier
}

func NewFeedbackHandler(store FeedbackStore, classifier sentiment.Classifier, notifier notify.Notifier) *FeedbackHandler {
	return &FeedbackHandler{
		store:      store,
		classifier: classifier,
		notifier:   notifier,
	}
}

type SubmitFeedbackRequest struct {
	FacultyName  string `json:"facultyName"`
	Subject      string `json:"subject"`
	FeedbackText string `json:"feedbackText"`
	IsAnonymous  bool   `json:"isAnonymous"`
}

// --- POST /api/feedback/submit ---

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Please login to submit feedback")
		return
	}

	var req SubmitFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FacultyName == "" || req.Subject == "" || req.FeedbackText == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	// Classification gates the insert but never blocks it: failures resolve
	// to the fallback label inside the classifier.
	label := h.classifier.Classify(r.Context(), req.FeedbackText)

	studentName := user.Name
	if req.IsAnonymous {
		studentName = "Anonymous"
	}

	feedback := &models.Feedback{
		StudentID:    user.ID,
		StudentName:  studentName,
		FacultyName:  req.FacultyName,
		Subject:      req.Subject,
		FeedbackText: req.FeedbackText,
		IsAnonymous:  req.IsAnonymous,
		Sentiment:    string(label),
	}

	if err := h.store.Create(r.Context(), feedback); err != nil {
		log.Printf("Error creating feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to submit feedback")
		return
	}

	// Fire the notification in a background goroutine (non-blocking)
	go func() {
		message := formatNotification(feedback)
		if err := h.notifier.Publish(context.Background(), message); err != nil {
			log.Printf("Error publishing notification: %v", err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Feedback submitted successfully!",
		"feedback": feedback,
	})
}

// --- GET /api/feedback/all ---

func (h *FeedbackHandler) All(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil || !user.IsAdmin {
		writeError(w, http.StatusForbidden, accessDeniedMessage)
		return
	}

	entries, err := h.store.FindAll(r.Context())
	if err != nil {
		log.Printf("Error listing feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": entries})
}

// --- GET /api/feedback/stats ---

func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil || !user.IsAdmin {
		writeError(w, http.StatusForbidden, accessDeniedMessage)
		return
	}

	entries, err := h.store.FindAll(r.Context())
	if err != nil {
		log.Printf("Error listing feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var positive, negative, neutral int
	for _, entry := range entries {
		switch sentiment.Label(entry.Sentiment) {
		case sentiment.Positive:
			positive++
		case sentiment.Negative:
			negative++
		default:
			neutral++
		}
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"total":    len(entries),
		"positive": positive,
		"negative": negative,
		"neutral":  neutral,
	})
}

// --- GET /api/feedback/my-feedback ---

func (h *FeedbackHandler) MyFeedback(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Please login to view your feedback")
		return
	}

	entries, err := h.store.FindByStudent(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error listing feedback for student %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedback": entries})
}

// --- GET /api/feedback/analytics ---

func (h *FeedbackHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil || !user.IsAdmin {
		writeError(w, http.StatusForbidden, accessDeniedMessage)
		return
	}

	entries, err := h.store.FindAll(r.Context())
	if err != nil {
		log.Printf("Error listing feedback: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, analytics.Aggregate(entries))
}

func formatNotification(f *models.Feedback) string {
	return fmt.Sprintf("📝 New %s feedback for %s (%s) from %s",
		f.Sentiment, f.FacultyName, f.Subject, f.StudentName)
}
