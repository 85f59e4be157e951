package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/models"
)

type CreateCommentPayload struct {
	Body string `json:"body" binding:"required"`
}

// CreateCommentHandler adds a comment to a post. The post's comment count and
// the commenter's total go up in the same transaction.
func CreateCommentHandler(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format."})
		return
	}

	var payload CreateCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload: " + err.Error()})
		return
	}

	authUserID := c.MustGet("userID").(uuid.UUID)
	db := database.GetDB()

	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post does not exist."})
		return
	}

	comment := models.Comment{
		PostID:   postID,
		AuthorID: authUserID,
		Body:     payload.Body,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", authUserID).
			Update("total_comments", gorm.Expr("total_comments + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create comment."})
		return
	}

	db.Preload("Author").First(&comment, "id = ?", comment.ID)
	c.JSON(http.StatusCreated, comment)
}

// DeleteCommentHandler deletes the authenticated user's own comment.
func DeleteCommentHandler(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID format."})
		return
	}

	authUserID := c.MustGet("userID").(uuid.UUID)
	db := database.GetDB()

	var comment models.Comment
	if err := db.First(&comment, "id = ?", commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment does not exist."})
		return
	}
	if comment.AuthorID != authUserID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only delete your own comments."})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentVote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			Update("comment_count", gorm.Expr("comment_count - 1")).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", authUserID).
			Update("total_comments", gorm.Expr("total_comments - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete comment."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted."})
}

// VoteCommentHandler applies an up or down vote to a comment with the same
// toggle semantics as post votes, moving the author's comment karma.
func VoteCommentHandler(value int) gin.HandlerFunc {
	return func(c *gin.Context) {
		commentID, err := uuid.Parse(c.Param("commentId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID format."})
			return
		}

		authUserID := c.MustGet("userID").(uuid.UUID)
		db := database.GetDB()

		var comment models.Comment
		if err := db.First(&comment, "id = ?", commentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Comment does not exist."})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var existing models.CommentVote
			findErr := tx.Where("comment_id = ? AND user_id = ?", commentID, authUserID).First(&existing).Error

			var delta int
			switch {
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				delta = value
				vote := models.CommentVote{CommentID: commentID, UserID: authUserID, Value: value}
				if err := tx.Create(&vote).Error; err != nil {
					return err
				}
			case findErr != nil:
				return findErr
			case existing.Value == value:
				delta = -value
				if err := tx.Delete(&existing).Error; err != nil {
					return err
				}
			default:
				delta = 2 * value
				if err := tx.Model(&existing).Update("value", value).Error; err != nil {
					return err
				}
			}

			err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
				Update("points_count", gorm.Expr("points_count + ?", delta)).Error
			if err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("id = ?", comment.AuthorID).
				Update("comment_karma", gorm.Expr("comment_karma + ?", delta)).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register vote."})
			return
		}

		db.First(&comment, "id = ?", commentID)
		c.JSON(http.StatusOK, gin.H{"id": comment.ID, "pointsCount": comment.PointsCount})
	}
}
