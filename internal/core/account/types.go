package account

import "time"

// Recipe 單一食譜記錄，內嵌於帳號文件中。欄位名稱即為前端使用的 JSON 欄位。
// 識別碼由用戶端提供（通常為時間戳字串），僅在該帳號清單內唯一。
type Recipe struct {
	ID           string `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Type         string `bson:"type" json:"type"`
	Difficulty   string `bson:"difficulty" json:"difficulty"`
	TotalTime    string `bson:"totalTime" json:"totalTime"`
	Servings     int    `bson:"servings" json:"servings"`
	Ingredients  string `bson:"ingredients" json:"ingredients"`
	Instructions string `bson:"instructions" json:"instructions"`
	Info         string `bson:"info,omitempty" json:"info,omitempty"`
	Equipment    string `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Tips         string `bson:"tips,omitempty" json:"tips,omitempty"`
	Storage      string `bson:"storage,omitempty" json:"storage,omitempty"`
	Image        string `bson:"image,omitempty" json:"image,omitempty"`
	IsPublic     bool   `bson:"isPublic" json:"isPublic"`
	Date         string `bson:"date" json:"date"`

	// 來源資訊，僅在從他人公開食譜複製時填入
	OriginalID     string `bson:"originalId,omitempty" json:"originalId,omitempty"`
	OriginalAuthor string `bson:"originalAuthor,omitempty" json:"originalAuthor,omitempty"`
	SavedDate      string `bson:"savedDate,omitempty" json:"savedDate,omitempty"`
}

// PublicRecipe 公開食譜視圖，附加作者資訊
type PublicRecipe struct {
	Recipe   `bson:",inline"`
	Author   string `json:"author"`
	AuthorID string `json:"authorId"`
}

// Account 帳號文件，每位用戶一份，食譜清單內嵌
type Account struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"` // bcrypt 雜湊，不回傳
	Recipes   []Recipe  `bson:"recipes" json:"recipes"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CloneRecipes 回傳食譜清單的複本，避免呼叫端改動存儲內部狀態
func CloneRecipes(recipes []Recipe) []Recipe {
	if recipes == nil {
		return []Recipe{}
	}
	out := make([]Recipe, len(recipes))
	copy(out, recipes)
	return out
}
