package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Feedback is immutable after creation. StudentID is always stored;
// StudentName holds "Anonymous" when the submitter asked for anonymity.
type Feedback struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID    string        `bson:"student_id" json:"student_id"`
	StudentName  string        `bson:"student_name" json:"student_name"`
	FacultyName  string        `bson:"faculty_name" json:"faculty_name"`
	Subject      string        `bson:"subject" json:"subject"`
	FeedbackText string        `bson:"feedback_text" json:"feedback_text"`
	IsAnonymous  bool          `bson:"is_anonymous" json:"is_anonymous"`
	Sentiment    string        `bson:"sentiment" json:"sentiment"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
}
