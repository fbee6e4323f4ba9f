package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/dmitrijs2005/scicatalog/internal/server/services"
	"github.com/gin-gonic/gin"
)

func articleID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad article id %q", common.ErrValidation, c.Param("id"))
	}
	return id, nil
}

func (s *HTTPServer) searchArticles(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	list, err := s.articles.Search(c.Request.Context(), services.SearchParams{
		Term: q.Term, Name: q.Name, Author: q.Author, Year: q.Year,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newShortArticles(list))
}

func (s *HTTPServer) createArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	article, err := s.articles.Create(c.Request.Context(), currentUser(c).ID, services.NewArticle{
		ArticleFields:   req.fields(),
		PublicationYear: req.PublicationYear,
		Lang:            req.Lang,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdResponse{ID: article.ID})
}

func (s *HTTPServer) myArticles(c *gin.Context) {
	list, err := s.articles.ListMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newShortArticles(list))
}

func (s *HTTPServer) terms(c *gin.Context) {
	var q termsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	labels, err := s.articles.Terms(q.Lang)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, labels)
}

func (s *HTTPServer) getArticle(c *gin.Context) {
	id, err := articleID(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	article, err := s.articles.Get(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newArticleResponse(article))
}

func (s *HTTPServer) createProblem(c *gin.Context) {
	id, err := articleID(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	var req newProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	problem, err := s.articles.CreateProblem(c.Request.Context(), currentUser(c).ID, id, req.Problem)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProblemResponse(problem))
}

func (s *HTTPServer) updateArticle(c *gin.Context) {
	id, err := articleID(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, bindingError(err))
		return
	}

	article, err := s.articles.UpdateWithProblems(c.Request.Context(), currentUser(c).ID, id, req.fields(), req.states())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newArticleResponse(article))
}
