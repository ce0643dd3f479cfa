package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// secretKey 是服务器启动时生成的32字节密钥，仅在进程内有效。
// 重启后旧签名全部失效，这正好阻止了跨会话的过期成绩提交。
var secretKey []byte

// ScorePayload 定义了需要被签名的数据结构。
// 它在获取对局桌次的响应中下发，并在成绩提交请求中原样带回，
// 用于确保提交的成绩对应的是服务器真实下发过的(赛事,轮次,桌号,座位)组合。
type ScorePayload struct {
	Tournament string `json:"t"`
	Round      int    `json:"r"`
	TableID    int    `json:"b"`
	PlayerIDs  [4]int `json:"p"`
}

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
func GenerateSecretKey() {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC密钥已成功生成。")
}

// GenerateScoreSignature 为一个给定的ScorePayload生成HMAC签名。
// 返回签名的Base64编码字符串。
func GenerateScoreSignature(payload ScorePayload) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化Token payload")
	}

	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	signature := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(signature), nil
}

// ValidateScoreSignature 验证一个给定的payload和签名是否匹配。
func ValidateScoreSignature(payload ScorePayload, signatureB64 string) bool {
	// 重新序列化payload，确保与签名时的数据格式完全一致
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	expectedSignature := mac.Sum(nil)

	actualSignature, err := base64.RawURLEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}

	// 恒定时间比较，防止时序攻击
	return hmac.Equal(expectedSignature, actualSignature)
}
