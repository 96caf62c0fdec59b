package editor

// Entry 是一条证书数据记录，JSON 字段名与条目文件保持一致。
type Entry struct {
	ID                 string `json:"id"`
	P1Name             string `json:"p1_name"`
	P1Parents          string `json:"p1_parents"`
	P1Address          string `json:"p1_address"`
	P2Name             string `json:"p2_name"`
	P2Parents          string `json:"p2_parents"`
	P2Address          string `json:"p2_address"`
	MarriageDate       string `json:"marriage_date"`
	RegistrationNumber string `json:"registration_number"`
}

// Fields 返回字段 key 到文本的映射（不含 id）。
func (e Entry) Fields() map[string]string {
	return map[string]string{
		KeyP1Name:             e.P1Name,
		KeyP1Parents:          e.P1Parents,
		KeyP1Address:          e.P1Address,
		KeyP2Name:             e.P2Name,
		KeyP2Parents:          e.P2Parents,
		KeyP2Address:          e.P2Address,
		KeyMarriageDate:       e.MarriageDate,
		KeyRegistrationNumber: e.RegistrationNumber,
	}
}

// Set 按字段 key 写入文本，未知 key 返回 false。
func (e *Entry) Set(key, value string) bool {
	switch key {
	case KeyP1Name:
		e.P1Name = value
	case KeyP1Parents:
		e.P1Parents = value
	case KeyP1Address:
		e.P1Address = value
	case KeyP2Name:
		e.P2Name = value
	case KeyP2Parents:
		e.P2Parents = value
	case KeyP2Address:
		e.P2Address = value
	case KeyMarriageDate:
		e.MarriageDate = value
	case KeyRegistrationNumber:
		e.RegistrationNumber = value
	default:
		return false
	}
	return true
}

// SampleEntry 返回预览时使用的示例数据。
func SampleEntry() Entry {
	return Entry{
		P1Name:             "BRIDEGROOM NAME",
		P1Parents:          "Father name and Mothers name of the groom",
		P1Address:          "Bridegroom address line 1\nBridegroom address line 2",
		P2Name:             "BRIDE NAME ",
		P2Parents:          "Father name and Mothers name of the bride",
		P2Address:          "Bride address line 1\nBride address line 2",
		MarriageDate:       "2025-11-18",
		RegistrationNumber: "01/2025",
	}
}
