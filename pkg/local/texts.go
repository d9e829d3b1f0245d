package local

type Key string

const (
	KeyStop           = Key("stop")
	KeySend           = Key("send")
	KeySettings       = Key("settings")
	KeyProfile        = Key("profile")
	KeySearch         = Key("search")
	KeyVoiceMode      = Key("voiceMode")
	KeyAnalyze        = Key("analyze")
	KeyCopy           = Key("copy")
	KeyRetry          = Key("retry")
	KeyReply          = Key("reply")
	KeyCopyCode       = Key("copyCode")
	KeyAuth           = Key("auth")
	KeyUsername       = Key("username")
	KeyPassword       = Key("password")
	KeyLogin          = Key("login")
	KeyStats          = Key("stats")
	KeyRequests       = Key("requests")
	KeyFavMode        = Key("favMode")
	KeyCorePrompt     = Key("corePrompt")
	KeySave           = Key("save")
	KeyNotifSaved     = Key("notifSaved")
	KeyNotifCopied    = Key("notifCopied")
	KeyNewChat        = Key("newChat")
	KeyDeleteChat     = Key("deleteChat")
	KeyHistory        = Key("history")
	KeyOnboardTitle   = Key("onboardingTitle")
	KeyOnboardText    = Key("onboardingText")
	KeyOnboardStart   = Key("onboardingStart")
	KeySelectLang     = Key("selectLang")
	KeyChatTitle      = Key("chatTitle")
	KeySettingsTitle  = Key("settingsTitle")
	KeyProfileTitle   = Key("profileTitle")
	KeyAddPhoto       = Key("addPhoto")
	KeyGenImage       = Key("genImage")
	KeyUpdateBase     = Key("updateBase")
	KeyInterfaceGuide = Key("interfaceGuide")
	KeyUploading      = Key("uploading")
	KeyListen         = Key("listen")
	KeyTyping         = Key("typing")
	KeySlideCancel    = Key("slideCancel")
	KeyReleaseSend    = Key("releaseSend")
	KeyLocked         = Key("locked")

	KeyChatCreated      = Key("chatCreated")
	KeyChatSelected     = Key("chatSelected")
	KeyChatDeleted      = Key("chatDeleted")
	KeyChatNotFound     = Key("chatNotFound")
	KeyNoChats          = Key("noChats")
	KeyPresetSelected   = Key("presetSelected")
	KeyPresetUnknown    = Key("presetUnknown")
	KeyLanguageSelected = Key("languageSelected")
	KeyLanguageUnknown  = Key("languageUnknown")
	KeyAccentSelected   = Key("accentSelected")
	KeyGenModeOn        = Key("genModeOn")
	KeyGenModeOff       = Key("genModeOff")
	KeyImageAttached    = Key("imageAttached")
	KeyImageDetached    = Key("imageDetached")
	KeyImageCaption     = Key("imageCaption")
	KeyCameraDenied     = Key("cameraDenied")
	KeyCameraOpened     = Key("cameraOpened")
	KeyRecording        = Key("recording")
	KeyRecordCancelled  = Key("recordCancelled")
	KeyNotAuthenticated = Key("notAuthenticated")
	KeyLoggedOut        = Key("loggedOut")
	KeyAccessDenied     = Key("accessDenied")
	KeyUnknownCommand   = Key("unknownCommand")
	KeyHelp             = Key("help")
	KeyNicknameSaved    = Key("nicknameSaved")
)

var texts = map[Key]TextSet{
	KeyStop: NewSet("STOP",
		NewTrans(Rus, "СТОП"), NewTrans(Deu, "STOPP"), NewTrans(Fra, "ARRÊT"), NewTrans(Spa, "PARAR"),
		NewTrans(Ita, "STOP"), NewTrans(Jpn, "停止"), NewTrans(Chn, "停止"), NewTrans(Kor, "중지"),
		NewTrans(Ara, "إيقاف"), NewTrans(Tur, "DURDUR"), NewTrans(Por, "PARAR"),
	),
	KeySend: NewSet("Send",
		NewTrans(Rus, "Отправить"), NewTrans(Deu, "Senden"), NewTrans(Fra, "Envoyer"), NewTrans(Spa, "Enviar"),
		NewTrans(Ita, "Invia"), NewTrans(Jpn, "送信"), NewTrans(Chn, "发送"), NewTrans(Kor, "전송"),
		NewTrans(Ara, "إرسال"), NewTrans(Tur, "Gönder"), NewTrans(Por, "Enviar"),
	),
	KeySettings: NewSet("Settings",
		NewTrans(Rus, "Настройки"), NewTrans(Deu, "Einstellungen"), NewTrans(Fra, "Paramètres"),
		NewTrans(Spa, "Ajustes"), NewTrans(Ita, "Impostazioni"), NewTrans(Jpn, "設定"), NewTrans(Chn, "设置"),
		NewTrans(Kor, "설정"), NewTrans(Ara, "الإعدادات"), NewTrans(Tur, "Ayarlar"), NewTrans(Por, "Configurações"),
	),
	KeyProfile: NewSet("Profile",
		NewTrans(Rus, "Профиль"), NewTrans(Deu, "Profil"), NewTrans(Fra, "Profil"), NewTrans(Spa, "Perfil"),
		NewTrans(Ita, "Profilo"), NewTrans(Jpn, "プロフィール"), NewTrans(Chn, "个人资料"), NewTrans(Kor, "프로필"),
		NewTrans(Ara, "الملف الشخصي"), NewTrans(Tur, "Profil"), NewTrans(Por, "Perfil"),
	),
	KeySearch: NewSet("Message...",
		NewTrans(Rus, "Сообщение..."), NewTrans(Deu, "Nachricht..."), NewTrans(Fra, "Message..."),
		NewTrans(Spa, "Mensaje..."), NewTrans(Ita, "Messaggio..."), NewTrans(Jpn, "メッセージ..."),
		NewTrans(Chn, "消息..."), NewTrans(Kor, "메시지..."), NewTrans(Ara, "رسالة..."),
		NewTrans(Tur, "Mesaj..."), NewTrans(Por, "Mensagem..."),
	),
	KeyVoiceMode:   NewSet("Voice", NewTrans(Rus, "Голос")),
	KeyAnalyze:     NewSet("Analyze", NewTrans(Rus, "Анализ")),
	KeyCopy:        NewSet("Copy", NewTrans(Rus, "Копировать")),
	KeyRetry:       NewSet("Retry", NewTrans(Rus, "Переделать")),
	KeyReply:       NewSet("Reply", NewTrans(Rus, "Ответить")),
	KeyCopyCode:    NewSet("Copy Code", NewTrans(Rus, "Копировать код")),
	KeyAuth:        NewSet("Zenith Gateway", NewTrans(Rus, "Вход в Zenith")),
	KeyUsername:    NewSet("Username", NewTrans(Rus, "Имя пользователя")),
	KeyPassword:    NewSet("Password", NewTrans(Rus, "Пароль")),
	KeyLogin:       NewSet("Login", NewTrans(Rus, "Войти")),
	KeyStats:       NewSet("Statistics", NewTrans(Rus, "Статистика")),
	KeyRequests:    NewSet("Requests", NewTrans(Rus, "Запросов")),
	KeyFavMode:     NewSet("Favorite Mode", NewTrans(Rus, "Любимый режим")),
	KeyCorePrompt:  NewSet("Core Instruction", NewTrans(Rus, "Глобальная инструкция")),
	KeySave:        NewSet("Save", NewTrans(Rus, "Сохранить")),
	KeyNotifSaved:  NewSet("Settings saved", NewTrans(Rus, "Настройки сохранены")),
	KeyNotifCopied: NewSet("Code copied", NewTrans(Rus, "Код скопирован")),
	KeyNewChat: NewSet("New Chat",
		NewTrans(Rus, "Новый чат"), NewTrans(Deu, "Neuer Chat"), NewTrans(Fra, "Nouveau Chat"),
		NewTrans(Spa, "Nuevo Chat"), NewTrans(Ita, "Nuova Chat"), NewTrans(Jpn, "新しいチャット"),
		NewTrans(Chn, "新对话"), NewTrans(Kor, "새 채팅"), NewTrans(Ara, "دردشة جديدة"),
		NewTrans(Tur, "Yeni Sohbet"), NewTrans(Por, "Novo Chat"),
	),
	KeyDeleteChat: NewSet("Delete", NewTrans(Rus, "Удалить")),
	KeyHistory: NewSet("History",
		NewTrans(Rus, "История"), NewTrans(Deu, "Verlauf"), NewTrans(Fra, "Historique"),
		NewTrans(Spa, "Historial"), NewTrans(Ita, "Cronologia"), NewTrans(Jpn, "履歴"), NewTrans(Chn, "历史"),
		NewTrans(Kor, "기록"), NewTrans(Ara, "السجل"), NewTrans(Tur, "Geçmiş"), NewTrans(Por, "Histórico"),
	),
	KeyOnboardTitle: NewSet("Zenith AI"),
	KeyOnboardText: NewSet("Next-generation personal neural workstation.",
		NewTrans(Rus, "Персональная нейронная рабочая станция нового поколения."),
		NewTrans(Deu, "Persönliche neuronale Workstation der nächsten Generation."),
		NewTrans(Fra, "Station de travail neurale personnelle de nouvelle génération."),
		NewTrans(Spa, "Estación de trabajo neuronal personal de próxima generación."),
		NewTrans(Ita, "Stazione di lavoro neurale personale di prossima generazione."),
		NewTrans(Jpn, "次世代のパーソナル・ニューラル・ワークステーション。"),
		NewTrans(Chn, "下一代个人神经工作站。"),
		NewTrans(Kor, "차세대 개인 신경 워크스테이션."),
		NewTrans(Ara, "محطة عمل عصبية شخصية من الجيل القادم."),
		NewTrans(Tur, "Yeni nesil kişisel nöral iş istasyonu."),
		NewTrans(Por, "Estação de trabalho neural pessoal de próxima geração."),
	),
	KeyOnboardStart: NewSet("Initialize Link",
		NewTrans(Rus, "Инициализировать связь"), NewTrans(Deu, "Verbindung initialisieren"),
		NewTrans(Fra, "Initialiser le lien"), NewTrans(Spa, "Inicializar enlace"),
		NewTrans(Ita, "Inizializza collegamento"), NewTrans(Jpn, "リンクを初期化"), NewTrans(Chn, "初始化链接"),
		NewTrans(Kor, "링크 초기화"), NewTrans(Ara, "تهيئة الرابط"), NewTrans(Tur, "Bağlantıyı Başlat"),
		NewTrans(Por, "Inicializar link"),
	),
	KeySelectLang: NewSet("Select Language",
		NewTrans(Rus, "Выберите язык"), NewTrans(Deu, "Sprache wählen"), NewTrans(Fra, "Choisir la langue"),
		NewTrans(Spa, "Seleccionar idioma"), NewTrans(Ita, "Seleziona lingua"), NewTrans(Jpn, "言語を選択"),
		NewTrans(Chn, "选择语言"), NewTrans(Kor, "언어 선택"), NewTrans(Ara, "اختر اللغة"),
		NewTrans(Tur, "Dil Seçin"), NewTrans(Por, "Selecionar idioma"),
	),
	KeyChatTitle: NewSet("Neural Net",
		NewTrans(Rus, "Нейросеть"), NewTrans(Deu, "Neuralnetz"), NewTrans(Fra, "Réseau Neuronal"),
		NewTrans(Spa, "Red Neuronal"), NewTrans(Ita, "Rete Neurale"), NewTrans(Jpn, "ニューラルネット"),
		NewTrans(Chn, "神经网络"), NewTrans(Kor, "신경망"), NewTrans(Ara, "الشبكة العصبية"),
		NewTrans(Tur, "Nöral Ağ"), NewTrans(Por, "Rede Neural"),
	),
	KeySettingsTitle: NewSet("Settings",
		NewTrans(Rus, "Настройки"), NewTrans(Deu, "Einstellungen"), NewTrans(Fra, "Paramètres"),
		NewTrans(Spa, "Ajustes"), NewTrans(Ita, "Impostazioni"), NewTrans(Jpn, "設定"), NewTrans(Chn, "设置"),
		NewTrans(Kor, "설정"), NewTrans(Ara, "الإعدادات"), NewTrans(Tur, "Ayarlar"), NewTrans(Por, "Configurações"),
	),
	KeyProfileTitle: NewSet("Profile",
		NewTrans(Rus, "Профиль"), NewTrans(Deu, "Profil"), NewTrans(Fra, "Profil"), NewTrans(Spa, "Perfil"),
		NewTrans(Ita, "Profilo"), NewTrans(Jpn, "プロフィール"), NewTrans(Chn, "个人资料"), NewTrans(Kor, "프로필"),
		NewTrans(Ara, "الملف الشخصي"), NewTrans(Tur, "Profil"), NewTrans(Por, "Perfil"),
	),
	KeyAddPhoto:       NewSet("Photo", NewTrans(Rus, "Фото")),
	KeyGenImage:       NewSet("Generate Art", NewTrans(Rus, "Создать арт")),
	KeyUpdateBase:     NewSet("Base 2026", NewTrans(Rus, "База 2026")),
	KeyInterfaceGuide: NewSet("Manual", NewTrans(Rus, "Инструкция")),
	KeyUploading:      NewSet("Uploading...", NewTrans(Rus, "Загрузка...")),
	KeyListen:         NewSet("Listen", NewTrans(Rus, "Слушать")),
	KeyTyping: NewSet("Neural stream active...",
		NewTrans(Rus, "Формирование ответа..."), NewTrans(Deu, "Neuraler Stream aktiv..."),
		NewTrans(Fra, "Flux neural actif..."), NewTrans(Spa, "Flujo neural activo..."),
		NewTrans(Ita, "Flusso neurale attivo..."), NewTrans(Jpn, "ニューラルストリームアクティブ..."),
		NewTrans(Chn, "神经流活动中..."), NewTrans(Kor, "신경 스트림 활성..."),
		NewTrans(Ara, "البث العصبي نشط..."), NewTrans(Tur, "Nöral akış aktif..."),
		NewTrans(Por, "Fluxo neural ativo..."),
	),
	KeySlideCancel: NewSet("Slide to cancel", NewTrans(Rus, "Проведите для отмены")),
	KeyReleaseSend: NewSet("Release to send", NewTrans(Rus, "Отпустите для отправки")),
	KeyLocked:      NewSet("Recording locked", NewTrans(Rus, "Запись закреплена")),

	KeyChatCreated: NewSet("New chat: %s. Send your message again to start.",
		NewTrans(Rus, "Новый чат: %s. Отправьте сообщение ещё раз, чтобы начать.")),
	KeyChatSelected:     NewSet("Active chat: %s", NewTrans(Rus, "Активный чат: %s")),
	KeyChatDeleted:      NewSet("Chat deleted", NewTrans(Rus, "Чат удалён")),
	KeyChatNotFound:     NewSet("Chat not found", NewTrans(Rus, "Чат не найден")),
	KeyNoChats:          NewSet("No chats yet", NewTrans(Rus, "Чатов пока нет")),
	KeyPresetSelected:   NewSet("Preset: %s", NewTrans(Rus, "Режим: %s")),
	KeyPresetUnknown:    NewSet("Unknown preset", NewTrans(Rus, "Неизвестный режим")),
	KeyLanguageSelected: NewSet("Language: %s", NewTrans(Rus, "Язык: %s")),
	KeyLanguageUnknown:  NewSet("Unknown language", NewTrans(Rus, "Неизвестный язык")),
	KeyAccentSelected:   NewSet("Accent color: %s", NewTrans(Rus, "Акцентный цвет: %s")),
	KeyGenModeOn:        NewSet("Describe what to generate...", NewTrans(Rus, "Опишите, что создать...")),
	KeyGenModeOff:       NewSet("Image generation off", NewTrans(Rus, "Генерация изображений выключена")),
	KeyImageAttached:    NewSet("Image attached", NewTrans(Rus, "Изображение прикреплено")),
	KeyImageDetached:    NewSet("Image removed", NewTrans(Rus, "Изображение удалено")),
	KeyImageCaption:     NewSet("Neural Stream Visualization:"),
	KeyCameraDenied: NewSet("Camera access denied. Please check permissions.",
		NewTrans(Rus, "Доступ к камере запрещён. Проверьте разрешения.")),
	KeyCameraOpened: NewSet("Camera is live. Press Enter to capture, /close to cancel.",
		NewTrans(Rus, "Камера включена. Enter — снимок, /close — отмена.")),
	KeyRecording: NewSet("Recording... Enter to send, /cancel to discard.",
		NewTrans(Rus, "Запись... Enter — отправить, /cancel — отменить.")),
	KeyRecordCancelled:  NewSet("Recording discarded", NewTrans(Rus, "Запись отменена")),
	KeyNotAuthenticated: NewSet("Use /start to initialize the link.", NewTrans(Rus, "Используйте /start, чтобы войти.")),
	KeyLoggedOut:        NewSet("Link terminated", NewTrans(Rus, "Связь разорвана")),
	KeyAccessDenied:     NewSet("You are not allowed to use this bot", NewTrans(Rus, "У вас нет доступа к этому боту")),
	KeyUnknownCommand:   NewSet("I don't know that command", NewTrans(Rus, "Неизвестная команда")),
	KeyNicknameSaved:    NewSet("Nickname: %s", NewTrans(Rus, "Никнейм: %s")),
	KeyHelp: NewSet(
		"/new [preset] - new chat\n/chats - history\n/presets - personas\n/draw - toggle image generation\n"+
			"/lang <code> - language\n/color <#hex> - accent color\n/profile - statistics\n/nick <name> - nickname\n/stop - stop generation\n/logout - terminate link",
		NewTrans(Rus,
			"/new [режим] - новый чат\n/chats - история\n/presets - режимы\n/draw - генерация изображений\n"+
				"/lang <код> - язык\n/color <#hex> - акцентный цвет\n/profile - статистика\n/nick <имя> - никнейм\n/stop - остановить\n/logout - выйти"),
	),
}

// T returns the text for key in language, falling back to English and then
// to the key itself.
func T(language Language, key Key) string {
	if set, ok := texts[key]; ok {
		return set.Text(language)
	}
	return string(key)
}

// Tf is T with fmt-style arguments.
func Tf(language Language, key Key, a ...any) string {
	if set, ok := texts[key]; ok {
		return set.Format(language, a...)
	}
	return string(key)
}
