package tournament

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/SlpAus/mahjong-tournament-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// --- API请求/响应模型 ---

type createTournamentRequest struct {
	Name      string `json:"name" binding:"required"`
	MaxTables int    `json:"max_tables" binding:"required,min=1"`
	MaxGames  int    `json:"max_games" binding:"required,min=1"`
	Mode      string `json:"mode"`
}

type addPlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

type updatePlayerNameRequest struct {
	Name string `json:"name" binding:"required"`
}

type submitScoreRequest struct {
	Scores    [4]int             `json:"scores"`
	Payload   token.ScorePayload `json:"payload"`
	Signature string             `json:"signature" binding:"required"`
}

// TableResponse 是轮次视图中的一张牌桌。
// 未录入成绩的牌桌附带成绩提交签名，提交时必须原样带回。
type TableResponse struct {
	TableID    int                 `json:"table_id"`
	PlayerIDs  [4]int              `json:"player_ids"`
	Scores     [4]int              `json:"scores"`
	Points     [4]float64          `json:"points"`
	IsRecorded bool                `json:"is_recorded"`
	Payload    *token.ScorePayload `json:"payload,omitempty"`
	Signature  string              `json:"signature,omitempty"`
}

type roundResponse struct {
	RoundNumber      int             `json:"round_number"`
	Tables           []TableResponse `json:"tables"`
	RestingPlayerIDs []int           `json:"resting_player_ids"`
}

// handleServiceError 把服务层错误映射为HTTP响应。
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrRoundNotFound),
		errors.Is(err, ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// --- 控制器函数 ---

// CreateTournamentHandler 新建赛事
func CreateTournamentHandler(c *gin.Context) {
	var req createTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数不合法"})
		return
	}
	state, err := CreateTournament(req.Name, req.MaxTables, req.MaxGames, req.Mode)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// ListTournamentsHandler 列出所有赛事名称
func ListTournamentsHandler(c *gin.Context) {
	names, err := ListNames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法列出赛事"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tournaments": names})
}

// GetTournamentHandler 返回赛事的完整状态
func GetTournamentHandler(c *gin.Context) {
	state, err := LoadState(c.Param("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// DeleteTournamentHandler 删除赛事
func DeleteTournamentHandler(c *gin.Context) {
	if err := DeleteByName(c.Param("name")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("name")})
}

// AddPlayerHandler 注册新选手
func AddPlayerHandler(c *gin.Context) {
	var req addPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数不合法"})
		return
	}
	state, err := AddPlayer(c.Param("name"), req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// UpdatePlayerNameHandler 修改选手名称
func UpdatePlayerNameHandler(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "选手ID不合法"})
		return
	}
	var req updatePlayerNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数不合法"})
		return
	}
	state, err := UpdatePlayerName(c.Param("name"), playerID, req.Name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// TogglePlayerTeamHandler 切换选手的红白队伍
func TogglePlayerTeamHandler(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "选手ID不合法"})
		return
	}
	state, err := TogglePlayerTeam(c.Param("name"), playerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ShuffleTeamsHandler 随机重分红白两队
func ShuffleTeamsHandler(c *gin.Context) {
	state, err := ShuffleTeams(c.Param("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetPlayerDetailHandler 返回选手的逐轮详情
func GetPlayerDetailHandler(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "选手ID不合法"})
		return
	}
	detail, err := GetPlayerDetail(c.Param("name"), playerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// AppendRoundsHandler 提交（追加）排好的新轮次
func AppendRoundsHandler(c *gin.Context) {
	var req struct {
		Rounds []Round `json:"rounds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数不合法"})
		return
	}
	state, err := AppendRounds(c.Param("name"), req.Rounds)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetRoundHandler 返回一个轮次的所有牌桌。
// 未录入的牌桌带上成绩提交签名。
func GetRoundHandler(c *gin.Context) {
	name := c.Param("name")
	roundNum, err := strconv.Atoi(c.Param("num"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "轮次号不合法"})
		return
	}
	state, err := LoadState(name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if roundNum < 1 || roundNum > len(state.Rounds) {
		handleServiceError(c, ErrRoundNotFound)
		return
	}
	round := state.Rounds[roundNum-1]

	resp := roundResponse{
		RoundNumber:      round.RoundNumber,
		Tables:           make([]TableResponse, 0, len(round.Tables)),
		RestingPlayerIDs: round.RestingPlayerIDs,
	}
	for _, table := range round.Tables {
		tr := TableResponse{
			TableID:    table.TableID,
			PlayerIDs:  table.PlayerIDs,
			Scores:     table.Scores,
			Points:     table.Points,
			IsRecorded: table.IsRecorded,
		}
		if !table.IsRecorded {
			payload := token.ScorePayload{
				Tournament: name,
				Round:      round.RoundNumber,
				TableID:    table.TableID,
				PlayerIDs:  table.PlayerIDs,
			}
			signature, err := token.GenerateScoreSignature(payload)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "无法生成成绩提交签名"})
				return
			}
			tr.Payload = &payload
			tr.Signature = signature
		}
		resp.Tables = append(resp.Tables, tr)
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitScoreHandler 录入一桌成绩
func SubmitScoreHandler(c *gin.Context) {
	name := c.Param("name")
	roundNum, err := strconv.Atoi(c.Param("num"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "轮次号不合法"})
		return
	}
	tableID, err := strconv.Atoi(c.Param("tableId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "桌号不合法"})
		return
	}

	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数不合法"})
		return
	}

	// 签名校验：提交的成绩必须对应服务器下发过的这张牌桌
	if req.Payload.Tournament != name || req.Payload.Round != roundNum || req.Payload.TableID != tableID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "提交的成绩与目标牌桌不匹配"})
		return
	}
	if !token.ValidateScoreSignature(req.Payload, req.Signature) {
		c.JSON(http.StatusForbidden, gin.H{"error": "成绩提交签名无效"})
		return
	}

	state, err := SubmitScore(name, roundNum, tableID, req.Scores)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// UpdateSettingsHandler 替换精算设置并触发重放
func UpdateSettingsHandler(c *gin.Context) {
	var settings Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数不合法"})
		return
	}
	state, err := UpdateSettings(c.Param("name"), settings)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			handleServiceError(c, err)
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetStandingsHandler 返回积分榜
func GetStandingsHandler(c *gin.Context) {
	entries, err := GetStandings(c.Param("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"standings": entries})
}

// ExportTournamentHandler 以附件形式下载赛事存档
func ExportTournamentHandler(c *gin.Context) {
	name := c.Param("name")
	doc, err := ExportDocument(name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", name))
	c.Data(http.StatusOK, "application/json", []byte(doc))
}

// ImportTournamentHandler 导入一份赛事存档
func ImportTournamentHandler(c *gin.Context) {
	doc, err := io.ReadAll(c.Request.Body)
	if err != nil || len(doc) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体为空或不可读"})
		return
	}
	name, err := ImportDocument(doc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": name})
}
