package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warbler-app/api-go/config"
	"github.com/warbler-app/api-go/models"
	"github.com/warbler-app/api-go/utils"
)

// UploadController handles profile-image uploads (avatar and header)
// through an S3-compatible bucket: the client PUTs to a presigned
// temp URL, then confirms, which moves the object to its permanent
// key and updates the user row.
type UploadController struct {
	DB            *gorm.DB
	StorageClient *s3.Client
	StorageConfig *config.StorageConfig
}

type ImageUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=avatar header"`
}

type ImageConfirmRequest struct {
	TempKey string `json:"tempKey" binding:"required"`
	Kind    string `json:"kind" binding:"required,oneof=avatar header"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(db *gorm.DB) *UploadController {
	storageConfig := config.GetStorageConfig()

	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", storageConfig.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			storageConfig.AccessKeyID,
			storageConfig.SecretAccessKey,
			"",
		),
		Region: storageConfig.Region,
	})

	return &UploadController{
		DB:            db,
		StorageClient: client,
		StorageConfig: storageConfig,
	}
}

// GetImageUploadURL presigns a temp-key PUT for an avatar or header
// image.
func (uc *UploadController) GetImageUploadURL(c *gin.Context) {
	var req ImageUploadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !uc.isValidImageFile(req.ContentType, req.FileSize) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file type or size"})
		return
	}

	key := uc.generateTempImageKey(req.Kind, req.FileName)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: presignedURL,
			FileURL:   fmt.Sprintf("%s/%s", uc.StorageConfig.PublicURL, key),
			Key:       key,
			ExpiresIn: 1800,
		},
	})
}

// ConfirmImageUpload moves the temp object to its permanent key and
// points the user's profile at it.
func (uc *UploadController) ConfirmImageUpload(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req ImageConfirmRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := uc.verifyFileExists(req.TempKey)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Temporary image file not found"})
		return
	}

	permanentKey := uc.generateImageKey(claims.UserID, req.Kind, req.TempKey)

	if err := uc.moveFile(req.TempKey, permanentKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm image upload"})
		return
	}

	fileURL := fmt.Sprintf("%s/%s", uc.StorageConfig.PublicURL, permanentKey)

	column := "image_url"
	if req.Kind == "header" {
		column = "header_image_url"
	}
	if err := uc.DB.Model(&models.User{}).Where("id = ?", claims.UserID).
		Update(column, fileURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile image"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"key":     permanentKey,
			"fileUrl": fileURL,
		},
		Message: "Image upload confirmed",
	})
}

// CleanupTempImage deletes an abandoned temp upload.
func (uc *UploadController) CleanupTempImage(c *gin.Context) {
	tempKey := strings.TrimPrefix(c.Param("tempKey"), "/")

	if !strings.HasPrefix(tempKey, "temp/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temp key format"})
		return
	}

	if err := uc.deleteFile(tempKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cleanup temporary file"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Temporary image cleaned up"})
}

func (uc *UploadController) isValidImageFile(contentType string, fileSize int64) bool {
	validTypes := []string{
		"image/jpeg", "image/jpg", "image/png", "image/webp",
	}

	validType := false
	for _, validContentType := range validTypes {
		if contentType == validContentType {
			validType = true
			break
		}
	}

	if !validType {
		return false
	}

	return fileSize <= 5*1024*1024
}

func (uc *UploadController) generateTempImageKey(kind, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("temp/%s/%d_%s%s", kind, time.Now().Unix(), uuid.New().String(), ext)
}

func (uc *UploadController) generateImageKey(userID uint, kind, tempKey string) string {
	ext := filepath.Ext(tempKey)
	return fmt.Sprintf("users/%d/%s/%d%s", userID, kind, time.Now().Unix(), ext)
}

func (uc *UploadController) createPresignedURL(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.StorageConfig.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.StorageClient)
	req, err := presigner.PresignPutObject(context.TODO(), input, func(opts *s3.PresignOptions) {
		opts.Expires = 30 * time.Minute
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (uc *UploadController) verifyFileExists(key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(uc.StorageConfig.BucketName),
		Key:    aws.String(key),
	}

	if _, err := uc.StorageClient.HeadObject(context.TODO(), input); err != nil {
		return false, nil
	}

	return true, nil
}

func (uc *UploadController) deleteFile(key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(uc.StorageConfig.BucketName),
		Key:    aws.String(key),
	}

	_, err := uc.StorageClient.DeleteObject(context.TODO(), input)
	return err
}

func (uc *UploadController) moveFile(sourceKey, destKey string) error {
	copyInput := &s3.CopyObjectInput{
		Bucket:     aws.String(uc.StorageConfig.BucketName),
		CopySource: aws.String(fmt.Sprintf("%s/%s", uc.StorageConfig.BucketName, sourceKey)),
		Key:        aws.String(destKey),
	}

	if _, err := uc.StorageClient.CopyObject(context.TODO(), copyInput); err != nil {
		return err
	}

	return uc.deleteFile(sourceKey)
}
