package sqldb

// Placeholders are `?` throughout; both drivers accept them.

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS reviews (
  review_id              VARCHAR(36) PRIMARY KEY,
  rating                 INTEGER NOT NULL,
  review_text            TEXT NOT NULL,
  ai_summary             TEXT NOT NULL DEFAULT '',
  ai_recommended_actions TEXT NOT NULL DEFAULT '',
  ai_generated           INTEGER NOT NULL DEFAULT 0,
  created_at             TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews (created_at)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS; the index rides in the table DDL.
var schemaMySQL = []string{
	`CREATE TABLE IF NOT EXISTS reviews (
  review_id              VARCHAR(36) PRIMARY KEY,
  rating                 INT NOT NULL,
  review_text            TEXT NOT NULL,
  ai_summary             TEXT NOT NULL,
  ai_recommended_actions TEXT NOT NULL,
  ai_generated           TINYINT(1) NOT NULL DEFAULT 0,
  created_at             TIMESTAMP NOT NULL,
  INDEX idx_reviews_created_at (created_at)
) CHARACTER SET utf8mb4`,
}

const insertReviewSQL = `
INSERT INTO reviews
  (review_id, rating, review_text, ai_summary, ai_recommended_actions, ai_generated, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const updateFeedbackSQL = `
UPDATE reviews
SET ai_summary = ?, ai_recommended_actions = ?, ai_generated = 1
WHERE review_id = ?
`

const getReviewSQL = `
SELECT review_id, rating, review_text, ai_summary, ai_recommended_actions, ai_generated, created_at
FROM reviews
WHERE review_id = ?
`

// Newest first; review_id breaks created_at ties deterministically.
const listReviewsSQL = `
SELECT review_id, rating, review_text, ai_summary, ai_recommended_actions, ai_generated, created_at
FROM reviews
ORDER BY created_at DESC, review_id DESC
`

const countByRatingSQL = `
SELECT rating, COUNT(review_id)
FROM reviews
GROUP BY rating
`

const listNeedingFeedbackSQL = `
SELECT review_id, rating, review_text, ai_summary, ai_recommended_actions, ai_generated, created_at
FROM reviews
WHERE ai_generated = 0
ORDER BY created_at ASC
LIMIT ?
`
