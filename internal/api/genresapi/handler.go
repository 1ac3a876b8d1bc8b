package genresapi

import (
	"net/http"

	"moviestream-app/database"
	"moviestream-app/internal/domain/movies"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ListGenres(c *gin.Context) {
	q := database.DB.Model(&movies.Genre{})
	if search := c.Query("search"); search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	var genres []movies.Genre
	if err := q.Order("name ASC").Find(&genres).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load genres"})
		return
	}
	if len(genres) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No genres found"})
		return
	}
	c.JSON(http.StatusOK, genres)
}

func GetGenre(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre id"})
		return
	}

	var genre movies.Genre
	if err := database.DB.First(&genre, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}
	c.JSON(http.StatusOK, genre)
}

func CreateGenre(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dup int64
	database.DB.Model(&movies.Genre{}).Where("name = ?", input.Name).Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Genre already exists"})
		return
	}

	genre := movies.Genre{Name: input.Name, Description: input.Description}
	if err := database.DB.Create(&genre).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create genre"})
		return
	}
	c.JSON(http.StatusCreated, genre)
}

func UpdateGenre(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre id"})
		return
	}

	var genre movies.Genre
	if err := database.DB.First(&genre, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		var dup int64
		database.DB.Model(&movies.Genre{}).
			Where("name = ? AND id <> ?", *input.Name, id).Count(&dup)
		if dup > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Genre already exists"})
			return
		}
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&genre).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update genre"})
			return
		}
	}
	c.JSON(http.StatusOK, genre)
}

func DeleteGenre(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre id"})
		return
	}

	database.DB.Exec("DELETE FROM movie_genres WHERE genre_id = ?", id)
	res := database.DB.Delete(&movies.Genre{}, "id = ?", id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete genre"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Genre not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Genre deleted"})
}
