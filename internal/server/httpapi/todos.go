package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleCreateTodo(c *gin.Context) {
	var req services.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.renderError(c, bindError(err))
		return
	}

	todo, err := s.todos.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.metrics.ObserveTodo("create")
	c.JSON(http.StatusCreated, gin.H{"success": true, "todo": todo})
}

func (s *HTTPServer) handleListTodos(c *gin.Context) {
	todos, err := s.todos.List(c.Request.Context(), currentUser(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "todos": todos})
}

func (s *HTTPServer) handleGetTodo(c *gin.Context) {
	todo, err := s.todos.GetOne(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "todo": todo})
}

func (s *HTTPServer) handleUpdateTodo(c *gin.Context) {
	var req services.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.renderError(c, bindError(err))
		return
	}

	todo, err := s.todos.Update(c.Request.Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.metrics.ObserveTodo("update")
	c.JSON(http.StatusOK, gin.H{"success": true, "todo": todo})
}

func (s *HTTPServer) handleDeleteTodo(c *gin.Context) {
	if err := s.todos.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}

	s.metrics.ObserveTodo("delete")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Todo deleted successfully"})
}
