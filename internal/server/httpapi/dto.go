package httpapi

import (
	"time"

	"github.com/dmitrijs2005/scicatalog/internal/server/models"
	"github.com/dmitrijs2005/scicatalog/internal/server/services"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func newAuthResponse(r *services.AuthResult) authResponse {
	return authResponse{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken, User: newUserResponse(r.User)}
}

// articleFieldsRequest holds the fields shared by create and update.
type articleFieldsRequest struct {
	Name          string `json:"name" binding:"required"`
	Term          string `json:"term" binding:"required,vocabterm"`
	Terminology   string `json:"terminology"`
	Author        string `json:"author"`
	KeyWords      string `json:"key_words"`
	URL           string `json:"url"`
	Identifier    string `json:"identifier" binding:"required"`
	UsageContext  string `json:"usage_context"`
	MathApparatus string `json:"math_apparatus"`
	Solving       string `json:"solving"`
	Interests     string `json:"interests"`
}

func (r articleFieldsRequest) fields() models.ArticleFields {
	return models.ArticleFields{
		Name:          r.Name,
		Term:          r.Term,
		Terminology:   r.Terminology,
		Author:        r.Author,
		KeyWords:      r.KeyWords,
		URL:           r.URL,
		Identifier:    r.Identifier,
		UsageContext:  r.UsageContext,
		MathApparatus: r.MathApparatus,
		Solving:       r.Solving,
		Interests:     r.Interests,
	}
}

type createArticleRequest struct {
	articleFieldsRequest
	PublicationYear int    `json:"publication_year" binding:"required,gte=1,lte=9999"`
	Lang            string `json:"lang" binding:"required,lang"`
}

type problemStateRequest struct {
	ID       int64 `json:"id" binding:"required"`
	IsSolved bool  `json:"is_solved"`
}

type updateArticleRequest struct {
	articleFieldsRequest
	Problems []problemStateRequest `json:"problems" binding:"dive"`
}

func (r updateArticleRequest) states() []models.ProblemState {
	out := make([]models.ProblemState, 0, len(r.Problems))
	for _, p := range r.Problems {
		out = append(out, models.ProblemState{ID: p.ID, IsSolved: p.IsSolved})
	}
	return out
}

type newProblemRequest struct {
	Problem string `json:"problem" binding:"required"`
}

type searchQuery struct {
	Term   *string `form:"term" binding:"omitempty,vocabterm"`
	Name   *string `form:"name"`
	Author *string `form:"author"`
	Year   *int    `form:"year"`
}

type termsQuery struct {
	Lang string `form:"lang" binding:"required,lang"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type shortArticleResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Lang   string `json:"lang"`
	URL    string `json:"url"`
	UserID int64  `json:"user_id"`
}

func newShortArticles(list []*models.Article) []shortArticleResponse {
	out := make([]shortArticleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, shortArticleResponse{ID: a.ID, Name: a.Name, Lang: a.Lang, URL: a.URL, UserID: a.UserID})
	}
	return out
}

type problemResponse struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	IsSolved bool   `json:"is_solved"`
}

func newProblemResponse(p *models.Problem) problemResponse {
	return problemResponse{ID: p.ID, Text: p.Text, IsSolved: p.IsSolved}
}

type articleResponse struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Name            string            `json:"name"`
	Term            string            `json:"term"`
	Terminology     string            `json:"terminology"`
	Author          string            `json:"author"`
	KeyWords        string            `json:"key_words"`
	PublicationYear int               `json:"publication_year"`
	URL             string            `json:"url"`
	Identifier      string            `json:"identifier"`
	UsageContext    string            `json:"usage_context"`
	MathApparatus   string            `json:"math_apparatus"`
	Solving         string            `json:"solving"`
	Interests       string            `json:"interests"`
	Lang            string            `json:"lang"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Problems        []problemResponse `json:"problems"`
}

func newArticleResponse(a *models.Article) articleResponse {
	problems := make([]problemResponse, 0, len(a.Problems))
	for _, p := range a.Problems {
		problems = append(problems, newProblemResponse(p))
	}
	return articleResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		Name:            a.Name,
		Term:            a.Term,
		Terminology:     a.Terminology,
		Author:          a.Author,
		KeyWords:        a.KeyWords,
		PublicationYear: a.PublicationYear,
		URL:             a.URL,
		Identifier:      a.Identifier,
		UsageContext:    a.UsageContext,
		MathApparatus:   a.MathApparatus,
		Solving:         a.Solving,
		Interests:       a.Interests,
		Lang:            a.Lang,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		Problems:        problems,
	}
}
