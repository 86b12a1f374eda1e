package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"todoboard/pkg/logging"
)

func cachedRouter(t *testing.T, hits *int) (*gin.Engine, *ResponseCache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, err := logging.New("test", "")

	if err != nil {
		t.Fatal(err)
	}

	rc := NewResponseCache(NewMemoryStore(), logger, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("x-user-id", 1)
	})
	router.Use(rc.Middleware())
	router.GET("/user/:userId/todo", func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"size": *hits})
	})

	return router, rc
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

func TestResponseCacheServesSecondRequestFromCache(t *testing.T) {
	RegisterTestingT(t)

	hits := 0
	router, _ := cachedRouter(t, &hits)

	first := get(router, "/user/1/todo")
	Expect(first.Code).To(Equal(http.StatusOK))
	Expect(first.Header().Get("X-Cache")).To(Equal("MISS"))

	second := get(router, "/user/1/todo")
	Expect(second.Code).To(Equal(http.StatusOK))
	Expect(second.Header().Get("X-Cache")).To(Equal("HIT"))

	Expect(hits).To(Equal(1))
	Expect(second.Body.String()).To(Equal(first.Body.String()))
}

func TestResponseCacheInvalidation(t *testing.T) {
	RegisterTestingT(t)

	hits := 0
	router, rc := cachedRouter(t, &hits)

	get(router, "/user/1/todo")

	// simulate a write handler invalidating the owner's entries
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/user/1/todo", nil)
	rc.InvalidateUser(c, 1)

	get(router, "/user/1/todo")

	Expect(hits).To(Equal(2))
}

func TestResponseCacheSkipsNonGET(t *testing.T) {
	RegisterTestingT(t)

	gin.SetMode(gin.TestMode)

	logger, err := logging.New("test", "")

	if err != nil {
		t.Fatal(err)
	}

	rc := NewResponseCache(NewMemoryStore(), logger, nil)

	calls := 0
	router := gin.New()
	router.Use(rc.Middleware())
	router.POST("/user/:userId/todo", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": calls})
	})

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("POST", "/user/1/todo", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		Expect(rr.Header().Get("X-Cache")).To(BeEmpty())
	}

	Expect(calls).To(Equal(2))
}
